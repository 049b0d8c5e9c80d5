package tracing

import "io"

type Option func(*Tracing)

func ServiceName(name string) Option {
	return func(t *Tracing) {
		t.serviceName = name
	}
}

func Writer(w io.Writer) Option {
	return func(t *Tracing) {
		t.writer = w
	}
}

func PrettyPrint(enabled bool) Option {
	return func(t *Tracing) {
		t.prettyPrint = enabled
	}
}
