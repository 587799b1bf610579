package displaytemplate

import (
	"io"

	"seatd/internal/iniscan"
)

// Parse reads a display template from r. name is the template's name (the
// file's basename without extension), used only to populate Template.Name.
//
// Malformed input or a missing Type produces (nil, false) rather than an
// error: a bad template file is non-fatal for the Seat that references it.
func Parse(name string, r io.Reader) (*Template, bool) {
	groups, err := iniscan.ParseGroups(r)
	if err != nil {
		return nil, false
	}
	display := iniscan.FindGroup(groups, "Display")
	if display == nil {
		return nil, false
	}
	typ, ok := display.Get("Type")
	if !ok || typ == "" {
		return nil, false
	}
	hidden := false
	if h, ok := display.Get("Hidden"); ok {
		hidden = iniscan.ParseBool(h)
	}

	t := &Template{Name: name, Type: typ, Hidden: hidden}
	if params := iniscan.FindGroup(groups, typ); params != nil {
		t.Parameters = make([]Param, 0, len(params.Keys))
		for _, k := range params.Keys {
			v, _ := params.Get(k)
			t.Parameters = append(t.Parameters, Param{Name: k, Value: v})
		}
	}
	return t, true
}
