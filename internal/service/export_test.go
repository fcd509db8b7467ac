package service

import "time"

// SetClock replaces the time source of the service.
func (s *InventoryService) SetClock(now func() time.Time) {
	s.now = now
}

// SetClock replaces the time source of the registry.
func (s *Sessions) SetClock(now func() time.Time) {
	s.now = now
}
