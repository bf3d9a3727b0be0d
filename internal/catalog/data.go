package catalog

import "github.com/centroimagen/booking-api/pkg/types"

var serviceCategories = []types.ServiceCategory{
	{ID: "all", Name: "Todos"},
	{ID: "radiografias", Name: "Radiografías"},
	{ID: "ecografias", Name: "Ecografías"},
	{ID: "mamografias", Name: "Mamografías"},
	{ID: "tomografias", Name: "Tomografías"},
	{ID: "resonancias", Name: "Resonancias"},
	{ID: "densitometrias", Name: "Densitometrías"},
}

var medicalServices = []types.MedicalService{
	{
		ID:                "1",
		Name:              "Radiografía de Tórax",
		Category:          "radiografias",
		Description:       "Estudio radiológico del tórax para evaluación de pulmones, corazón y estructuras óseas.",
		Price:             25,
		Duration:          "15 minutos",
		Preparation:       "No requiere preparación especial",
		Indications:       "Evaluación de síntomas respiratorios, control preoperatorio, screening de tuberculosis",
		Contraindications: "Embarazo (relativo)",
	},
	{
		ID:                "2",
		Name:              "Radiografía de Columna Lumbar",
		Category:          "radiografias",
		Description:       "Estudio radiológico de la columna lumbar para evaluación de vértebras y discos intervertebrales.",
		Price:             30,
		Duration:          "20 minutos",
		Preparation:       "Ayuno de 4 horas",
		Indications:       "Dolor lumbar, evaluación de fracturas, control postoperatorio",
		Contraindications: "Embarazo",
	},
	{
		ID:                "3",
		Name:              "Ecografía Abdominal Completa",
		Category:          "ecografias",
		Description:       "Estudio ecográfico de órganos abdominales: hígado, vesícula, páncreas, riñones, bazo.",
		Price:             45,
		Duration:          "30 minutos",
		Preparation:       "Ayuno de 8 horas",
		Indications:       "Dolor abdominal, evaluación de órganos, control de masas",
		Contraindications: "Ninguna",
	},
	{
		ID:                "4",
		Name:              "Ecografía Obstétrica",
		Category:          "ecografias",
		Description:       "Estudio ecográfico para evaluación del embarazo y desarrollo fetal.",
		Price:             50,
		Duration:          "45 minutos",
		Preparation:       "Vejiga llena",
		Indications:       "Control prenatal, evaluación fetal, detección de anomalías",
		Contraindications: "Ninguna",
	},
	{
		ID:                "5",
		Name:              "Mamografía Bilateral",
		Category:          "mamografias",
		Description:       "Estudio radiológico de ambas mamas para detección temprana de cáncer de mama.",
		Price:             40,
		Duration:          "20 minutos",
		Preparation:       "No usar desodorante el día del estudio",
		Indications:       "Screening de cáncer de mama, evaluación de masas mamarias",
		Contraindications: "Embarazo",
	},
	{
		ID:                "6",
		Name:              "Tomografía Computarizada de Tórax",
		Category:          "tomografias",
		Description:       "Estudio tomográfico de alta resolución del tórax con contraste intravenoso.",
		Price:             120,
		Duration:          "30 minutos",
		Preparation:       "Ayuno de 6 horas, contraste IV",
		Indications:       "Evaluación de nódulos pulmonares, estadificación oncológica",
		Contraindications: "Alergia al contraste, insuficiencia renal",
	},
	{
		ID:                "7",
		Name:              "Resonancia Magnética Cerebral",
		Category:          "resonancias",
		Description:       "Estudio de resonancia magnética del cerebro para evaluación de estructuras cerebrales.",
		Price:             150,
		Duration:          "45 minutos",
		Preparation:       "Retirar objetos metálicos",
		Indications:       "Cefaleas, evaluación de lesiones cerebrales, control postoperatorio",
		Contraindications: "Marcapasos, implantes metálicos, claustrofobia",
	},
	{
		ID:                "8",
		Name:              "Densitometría Ósea",
		Category:          "densitometrias",
		Description:       "Estudio para evaluación de la densidad mineral ósea y detección de osteoporosis.",
		Price:             60,
		Duration:          "20 minutos",
		Preparation:       "No requiere preparación especial",
		Indications:       "Evaluación de osteoporosis, control de tratamiento, screening postmenopáusico",
		Contraindications: "Embarazo",
	},
}

var medicalCenters = []types.MedicalCenter{
	{
		ID:       "1",
		Name:     "Centro Imagen Quito",
		Address:  "Av. Amazonas N34-123 y Av. 6 de Diciembre",
		City:     "Quito",
		Phone:    "02-2345678",
		WhatsApp: "+593-99-123-4567",
		Email:    "quito@centroimagen.com",
		Hours: types.CenterHours{
			Weekdays: "07:00 - 19:00",
			Saturday: "08:00 - 16:00",
			Sunday:   "08:00 - 14:00",
		},
		Services:    []string{"Radiografías", "Ecografías", "Mamografías", "Tomografías", "Resonancias"},
		Coordinates: types.Coordinates{Latitude: -0.1807, Longitude: -78.4678},
		Description: "Nuestro centro principal en Quito con tecnología de última generación y personal altamente capacitado.",
		Specialties: []string{"Radiología General", "Radiología Pediátrica", "Radiología de Emergencia"},
	},
	{
		ID:       "2",
		Name:     "Centro Imagen Guayaquil",
		Address:  "Av. 9 de Octubre 1234 y Av. Francisco de Orellana",
		City:     "Guayaquil",
		Phone:    "04-2345678",
		WhatsApp: "+593-99-234-5678",
		Email:    "guayaquil@centroimagen.com",
		Hours: types.CenterHours{
			Weekdays: "07:00 - 19:00",
			Saturday: "08:00 - 16:00",
			Sunday:   "08:00 - 14:00",
		},
		Services:    []string{"Radiografías", "Ecografías", "Mamografías", "Tomografías", "Densitometrías"},
		Coordinates: types.Coordinates{Latitude: -2.1894, Longitude: -79.8890},
		Description: "Centro especializado en servicios de diagnóstico por imágenes en la costa ecuatoriana.",
		Specialties: []string{"Radiología General", "Radiología Oncológica", "Radiología Intervencionista"},
	},
	{
		ID:       "3",
		Name:     "Centro Imagen Cuenca",
		Address:  "Av. Solano 567 y Av. 12 de Abril",
		City:     "Cuenca",
		Phone:    "07-2345678",
		WhatsApp: "+593-99-345-6789",
		Email:    "cuenca@centroimagen.com",
		Hours: types.CenterHours{
			Weekdays: "07:00 - 18:00",
			Saturday: "08:00 - 15:00",
			Sunday:   "08:00 - 13:00",
		},
		Services:    []string{"Radiografías", "Ecografías", "Mamografías", "Resonancias"},
		Coordinates: types.Coordinates{Latitude: -2.9001, Longitude: -79.0059},
		Description: "Centro de diagnóstico por imágenes en la hermosa ciudad de Cuenca con atención personalizada.",
		Specialties: []string{"Radiología General", "Radiología Pediátrica", "Radiología Musculoesquelética"},
	},
	{
		ID:       "4",
		Name:     "Centro Imagen Santo Domingo",
		Address:  "Av. Tsáchila 890 y Av. Quito",
		City:     "Santo Domingo",
		Phone:    "02-3456789",
		WhatsApp: "+593-99-456-7890",
		Email:    "santodomingo@centroimagen.com",
		Hours: types.CenterHours{
			Weekdays: "07:00 - 18:00",
			Saturday: "08:00 - 15:00",
			Sunday:   "Cerrado",
		},
		Services:    []string{"Radiografías", "Ecografías", "Mamografías"},
		Coordinates: types.Coordinates{Latitude: -0.2522, Longitude: -79.1759},
		Description: "Centro de diagnóstico por imágenes en Santo Domingo con servicios básicos y especializados.",
		Specialties: []string{"Radiología General", "Radiología de Emergencia"},
	},
	{
		ID:       "5",
		Name:     "Centro Imagen Manta",
		Address:  "Av. 4 de Noviembre 123 y Av. 24 de Mayo",
		City:     "Manta",
		Phone:    "05-2345678",
		WhatsApp: "+593-99-567-8901",
		Email:    "manta@centroimagen.com",
		Hours: types.CenterHours{
			Weekdays: "07:00 - 18:00",
			Saturday: "08:00 - 15:00",
			Sunday:   "08:00 - 13:00",
		},
		Services:    []string{"Radiografías", "Ecografías", "Mamografías", "Tomografías"},
		Coordinates: types.Coordinates{Latitude: -0.9617, Longitude: -80.7087},
		Description: "Centro de diagnóstico por imágenes en Manta, puerto principal de Ecuador.",
		Specialties: []string{"Radiología General", "Radiología de Emergencia", "Radiología Pediátrica"},
	},
	{
		ID:       "6",
		Name:     "Centro Imagen Ambato",
		Address:  "Av. Cevallos 456 y Av. 12 de Noviembre",
		City:     "Ambato",
		Phone:    "03-2345678",
		WhatsApp: "+593-99-678-9012",
		Email:    "ambato@centroimagen.com",
		Hours: types.CenterHours{
			Weekdays: "07:00 - 18:00",
			Saturday: "08:00 - 15:00",
			Sunday:   "08:00 - 13:00",
		},
		Services:    []string{"Radiografías", "Ecografías", "Mamografías", "Densitometrías"},
		Coordinates: types.Coordinates{Latitude: -1.2491, Longitude: -78.6067},
		Description: "Centro de diagnóstico por imágenes en Ambato, ciudad de las flores y las frutas.",
		Specialties: []string{"Radiología General", "Radiología Pediátrica"},
	},
}

var timeSlots = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30",
	"11:00", "11:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}
