package diagnostics

// RealignAdapter rewrites diagnostics coming from the proof engine into the
// source program's coordinate convention before forwarding them to the next
// reporter. The engine reports 0-based columns; Cadenza positions are
// 1-based. The adapter also expands a diagnostic's nested-origin chain into
// related-location messages so that inlined or instantiated code points
// back at where it came from.
type RealignAdapter struct {
	next Reporter
}

// NewRealignAdapter wraps next with coordinate realignment.
func NewRealignAdapter(next Reporter) *RealignAdapter {
	return &RealignAdapter{next: next}
}

// Report realigns the primary and related positions and expands the origin
// chain, then forwards the rewritten diagnostic.
func (a *RealignAdapter) Report(d Diagnostic) {
	out := Diagnostic{
		Severity: d.Severity,
		Pos:      realign(d.Pos),
		Message:  d.Message,
	}

	for _, r := range d.Related {
		out.Related = append(out.Related, Related{Pos: realign(r.Pos), Message: r.Message})
	}

	for o := d.Origin; o != nil; o = o.Parent {
		msg := o.Message
		if msg == "" {
			msg = "this is the location of the originating expression"
		}
		out.Related = append(out.Related, Related{Pos: realign(o.Pos), Message: msg})
	}

	a.next.Report(out)
}

// realign converts an engine position (0-based column) to the source
// convention (1-based column). Lines already agree between the two.
func realign(p Position) Position {
	p.Column++
	return p
}
