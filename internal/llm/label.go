package llm

import "context"

type labelKey struct{}

// Label says why a request was made. It is stored with the request event.
type Label struct {
	Purpose string
	// Subject names what the request is about, such as a sheet name.
	Subject string
}

// String renders the label as "purpose" or "purpose:subject".
func (l Label) String() string {
	if l.Subject == "" {
		return l.Purpose
	}
	return l.Purpose + ":" + l.Subject
}

// WithLabel attaches l to ctx.
func WithLabel(ctx context.Context, l Label) context.Context {
	return context.WithValue(ctx, labelKey{}, l)
}

// LabelFrom returns the label on ctx. The purpose defaults to "unknown".
func LabelFrom(ctx context.Context) Label {
	l, _ := ctx.Value(labelKey{}).(Label)
	if l.Purpose == "" {
		l.Purpose = "unknown"
	}
	return l
}
