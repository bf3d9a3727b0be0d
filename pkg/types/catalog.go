package types

// ServiceCategory groups imaging services for catalog browsing
type ServiceCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MedicalService represents an imaging service offered by the clinic chain
type MedicalService struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	Duration          string  `json:"duration"`
	Preparation       string  `json:"preparation"`
	Indications       string  `json:"indications"`
	Contraindications string  `json:"contraindications"`
}

// CenterHours holds the opening hours of a medical center
type CenterHours struct {
	Weekdays string `json:"weekdays"`
	Saturday string `json:"saturday"`
	Sunday   string `json:"sunday"`
}

// Coordinates holds a geographic position
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MedicalCenter represents a physical imaging center of the chain
type MedicalCenter struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Phone       string      `json:"phone"`
	WhatsApp    string      `json:"whatsapp"`
	Email       string      `json:"email"`
	Hours       CenterHours `json:"hours"`
	Services    []string    `json:"services"`
	Coordinates Coordinates `json:"coordinates"`
	Description string      `json:"description"`
	Specialties []string    `json:"specialties"`
}
