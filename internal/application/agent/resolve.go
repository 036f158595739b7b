package agent

// Matcher intenta extraer argumentos tipados de un texto libre.
type Matcher[T any] interface {
	Match(input string) (T, bool)
}

// MatcherFunc adapta una función a Matcher.
type MatcherFunc[T any] func(input string) (T, bool)

func (f MatcherFunc[T]) Match(input string) (T, bool) { return f(input) }

// Chain prueba los matchers en orden; gana el primero que reconoce la entrada.
type Chain[T any] []Matcher[T]

// Resolve devuelve el resultado del primer matcher exitoso.
func (c Chain[T]) Resolve(input string) (T, bool) {
	for _, m := range c {
		if v, ok := m.Match(input); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
