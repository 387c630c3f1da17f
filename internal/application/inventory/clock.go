package inventory

import (
	"sync"
	"time"
)

// Clock entrega timestamps estrictamente crecientes dentro del proceso.
// Dos ventas registradas en el mismo microsegundo quedan igualmente ordenadas.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock crea un reloj sobre time.Now.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockFrom crea un reloj sobre una fuente de tiempo arbitraria (tests).
func NewClockFrom(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Now devuelve el instante actual truncado a microsegundos (precisión de timestamptz).
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
