package main

import wxfdb "github.com/wxfdb/fdb"

// parseFullKey parses a mars-style "k1=v1,k2=v2" string into a single Key,
// rejecting any name that carries more than one candidate value (archive
// and retrieve operate on one fully-specified key, not a request).
func parseFullKey(s string) (wxfdb.Key, error) {
	req, err := wxfdb.ParseRequest(s)
	if err != nil {
		return wxfdb.Key{}, userErr("%v", err)
	}
	k := wxfdb.Key{}
	for _, name := range req.Names() {
		values, _ := req.Values(name)
		if len(values) != 1 {
			return wxfdb.Key{}, userErr("key clause %q must name exactly one value", name)
		}
		k = k.Merge(wxfdb.NewKey([2]string{name, values[0]}))
	}
	return k, nil
}
