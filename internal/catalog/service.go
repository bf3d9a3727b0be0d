package catalog

import (
	"fmt"

	"github.com/centroimagen/booking-api/pkg/types"
)

// Service exposes the static clinic catalog: imaging services, centers,
// categories, and bookable time slots. The data is read-only; lookups are
// index-backed maps built once at construction.
type Service struct {
	servicesByID map[string]*types.MedicalService
	centersByID  map[string]*types.MedicalCenter
	slotSet      map[string]struct{}
}

// NewService creates a catalog service over the built-in data
func NewService() *Service {
	s := &Service{
		servicesByID: make(map[string]*types.MedicalService, len(medicalServices)),
		centersByID:  make(map[string]*types.MedicalCenter, len(medicalCenters)),
		slotSet:      make(map[string]struct{}, len(timeSlots)),
	}
	for i := range medicalServices {
		s.servicesByID[medicalServices[i].ID] = &medicalServices[i]
	}
	for i := range medicalCenters {
		s.centersByID[medicalCenters[i].ID] = &medicalCenters[i]
	}
	for _, slot := range timeSlots {
		s.slotSet[slot] = struct{}{}
	}
	return s
}

// Services returns imaging services, optionally filtered by category.
// The "all" category and an empty category both return everything.
func (s *Service) Services(category string) []types.MedicalService {
	if category == "" || category == "all" {
		out := make([]types.MedicalService, len(medicalServices))
		copy(out, medicalServices)
		return out
	}

	var out []types.MedicalService
	for _, svc := range medicalServices {
		if svc.Category == category {
			out = append(out, svc)
		}
	}
	return out
}

// GetService returns an imaging service by ID
func (s *Service) GetService(id string) (*types.MedicalService, error) {
	svc, ok := s.servicesByID[id]
	if !ok {
		return nil, types.NewNotFoundError("SERVICE_NOT_FOUND",
			fmt.Sprintf("Medical service %s not found", id))
	}
	return svc, nil
}

// Centers returns all medical centers, optionally filtered by city
func (s *Service) Centers(city string) []types.MedicalCenter {
	if city == "" {
		out := make([]types.MedicalCenter, len(medicalCenters))
		copy(out, medicalCenters)
		return out
	}

	var out []types.MedicalCenter
	for _, c := range medicalCenters {
		if c.City == city {
			out = append(out, c)
		}
	}
	return out
}

// GetCenter returns a medical center by ID
func (s *Service) GetCenter(id string) (*types.MedicalCenter, error) {
	c, ok := s.centersByID[id]
	if !ok {
		return nil, types.NewNotFoundError("CENTER_NOT_FOUND",
			fmt.Sprintf("Medical center %s not found", id))
	}
	return c, nil
}

// Categories returns the service categories
func (s *Service) Categories() []types.ServiceCategory {
	out := make([]types.ServiceCategory, len(serviceCategories))
	copy(out, serviceCategories)
	return out
}

// TimeSlots returns the bookable time slots
func (s *Service) TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// IsBookableSlot reports whether the time is one of the offered slots
func (s *Service) IsBookableSlot(slot string) bool {
	_, ok := s.slotSet[slot]
	return ok
}
