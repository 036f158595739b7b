package agent

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var strokeReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// Fold quita tildes y diacríticos ("nhập kho" -> "nhap kho") conservando mayúsculas,
// así los patrones no dependen de cómo escriba el usuario.
func Fold(s string) string {
	s = strokeReplacer.Replace(s)
	// transform.Chain guarda estado; se arma uno por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldLower normaliza para detección de intención.
func foldLower(s string) string {
	return strings.ToLower(strings.TrimSpace(Fold(s)))
}

// foldIndexed pliega s runa a runa. offsets[i] es el byte del original que produjo
// el byte i del resultado; offsets[len(folded)] = len(s).
func foldIndexed(s string) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		f := Fold(string(r))
		b.WriteString(f)
		for range len(f) {
			offsets = append(offsets, i)
		}
	}
	return b.String(), append(offsets, len(s))
}

// rawGroups recorta del original los grupos de una coincidencia sobre el texto plegado.
func rawGroups(s string, offsets, loc []int) []string {
	out := make([]string, len(loc)/2)
	for g := range out {
		a, b := loc[2*g], loc[2*g+1]
		if a < 0 {
			continue
		}
		out[g] = s[offsets[a]:offsets[b]]
	}
	return out
}

// findRaw busca re sobre el texto sin tildes pero devuelve los grupos tal como los
// escribió el usuario (nombres y notas conservan sus acentos).
func findRaw(re *regexp.Regexp, s string) []string {
	folded, offsets := foldIndexed(s)
	loc := re.FindStringSubmatchIndex(folded)
	if loc == nil {
		return nil
	}
	return rawGroups(s, offsets, loc)
}

// findAllRaw es findRaw para todas las coincidencias.
func findAllRaw(re *regexp.Regexp, s string) [][]string {
	folded, offsets := foldIndexed(s)
	var out [][]string
	for _, loc := range re.FindAllStringSubmatchIndex(folded, -1) {
		out = append(out, rawGroups(s, offsets, loc))
	}
	return out
}

// findRawString devuelve la coincidencia completa en el texto original ("" si no hay).
func findRawString(re *regexp.Regexp, s string) string {
	if m := findRaw(re, s); m != nil {
		return m[0]
	}
	return ""
}
