package object

import "github.com/ohler55/ojg/jp"

// Query evaluates a JSONPath expression against Export and returns each
// match in container form. An invalid expression is logged and yields no
// matches.
//
//	o.Query("$.items[*].name")
func (o *Object) Query(expr string) []*Object {
	x, err := jp.ParseString(expr)
	if err != nil {
		o.log().Debug("invalid json path", "expr", expr, "error", err)
		return []*Object{}
	}
	matches := x.Get(o.Export())
	out := make([]*Object, len(matches))
	for i, m := range matches {
		out[i] = o.derive(m)
	}
	return out
}
