// Package options provides the generic functional options behind history.Option,
// coerce.Option, block.Option and hoshi.ModelOption.
//
// Each package instantiates Option with a pointer to its own config struct.
// Options that validate input (a convertible-fraction threshold, a cache codec)
// are built with New; plain setters use NoError.
package options

// Option sets one field of a config of type T, possibly rejecting the value.
type Option[T any] interface {
	apply(T) error
}

// Func is the Option returned by New and NoError.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an option whose error aborts construction of the configured value.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError creates a setter option that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order and returns the first error. Later
// options override earlier ones, so a facade can prepend its defaults (the
// model's logger) before the caller's options. Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
