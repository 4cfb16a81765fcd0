package handler

// fieldErrors accumulates per-field validation messages and serializes to
// the API's 400 body: {"field": ["message", ...]}. The shape mirrors what
// clients of this API have always received for invalid input.
type fieldErrors map[string][]string

const msgRequired = "This field is required."

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) ok() bool { return len(f) == 0 }
