package service

import "time"

// Clock abstrae el tiempo para que expiraciones y TTL sean testeables.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock devuelve el reloj de sistema en UTC.
func SystemClock() Clock {
	return systemClock{}
}
