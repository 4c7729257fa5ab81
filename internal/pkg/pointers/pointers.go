package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func String(v string) *string { return &v }
func Uint(v uint) *uint       { return &v }

// Map applies fn to the pointed-to value and returns a new pointer, or nil
// when p is nil.
func Map[T any](p *T, fn func(T) T) *T {
	if p == nil {
		return nil
	}
	v := fn(*p)
	return &v
}
