package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SerialPrefix prefijo fijo de los seriales generados por unidad.
const SerialPrefix = "RF"

// SerialGenerator deriva seriales del código del producto y una marca de tiempo con
// resolución de microsegundos. Garantiza marcas estrictamente crecientes dentro del proceso,
// de modo que dos llamadas en el mismo microsegundo no producen el mismo valor.
type SerialGenerator struct {
	now  func() time.Time
	mu   sync.Mutex
	last time.Time
}

// NewSerialGenerator construye el generador. now nil usa time.Now.
func NewSerialGenerator(now func() time.Time) *SerialGenerator {
	if now == nil {
		now = time.Now
	}
	return &SerialGenerator{now: now}
}

// Next devuelve un serial con formato RF-{código}-{ddMMHHmmss}-{microsegundos}.
func (g *SerialGenerator) Next(productCode string) string {
	g.mu.Lock()
	t := g.now().Truncate(time.Microsecond)
	if !t.After(g.last) {
		t = g.last.Add(time.Microsecond)
	}
	g.last = t
	g.mu.Unlock()
	return fmt.Sprintf("%s-%s-%s-%06d", SerialPrefix, productCode, t.Format("0201150405"), t.Nanosecond()/1000)
}

// BatchPrefix prefijo de los seriales fabricados en lote por una solicitud: {código}-{YYYYMMDD}-.
func BatchPrefix(productCode string, day time.Time) string {
	return productCode + "-" + day.Format("20060102") + "-"
}

// BatchSerials devuelve n seriales consecutivos para prefix, empezando después de la mayor
// secuencia ya usada entre existing.
func BatchSerials(prefix string, existing []string, n int) []string {
	next := maxSequence(prefix, existing) + 1
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%s%03d", prefix, next+i))
	}
	return out
}

func maxSequence(prefix string, existing []string) int {
	max := 0
	for _, s := range existing {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(s, prefix))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}
