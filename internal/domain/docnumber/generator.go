// Package docnumber genera los números de documento legibles del sistema:
//
//	<PREFIX>-<YYYYMM>-<secuencia>   ej. RO-202501-001
//
// La secuencia es el menor entero positivo no usado entre los documentos
// existentes del mismo prefijo y mes. El cálculo es determinista: con el mismo
// conjunto de entrada produce siempre el mismo número, de modo que un reintento
// tras una escritura fallida no salta números innecesariamente.
package docnumber

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefijos de documento del sistema.
const (
	PrefixRequest = "RO" // solicitud de compra/asignación
	PrefixLoan    = "LN" // solicitud de préstamo
	PrefixReturn  = "RT" // devolución de activos
)

// Generator servicio de dominio sin estado.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator { return &Generator{} }

// Generate produce el siguiente número libre para el prefijo y el mes de la fecha.
// Los ids existentes que no siguen el formato (o duplicados) se toleran y se
// ignoran: la numeración favorece disponibilidad sobre rechazo.
func (g *Generator) Generate(prefix string, existing []string, date time.Time) string {
	bucket := date.Format("200601")
	used := make(map[int]bool, len(existing))
	for _, id := range existing {
		seq, ok := parseSequence(id, prefix, bucket)
		if ok {
			used[seq] = true
		}
	}
	seq := 1
	for used[seq] {
		seq++
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, bucket, seq)
}

// parseSequence extrae la secuencia de un id <PREFIX>-<YYYYMM>-<seq> si el id
// pertenece al mismo prefijo y mes.
func parseSequence(id, prefix, bucket string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-"+bucket+"-")
	if !ok {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
