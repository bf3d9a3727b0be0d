package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the booking service
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	tables := []string{
		createIdentitiesTable,
		createAppointmentsTable,
		createResultsTable,
		createAttachmentsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createIdentitiesIndexes,
		createAppointmentsIndexes,
		createResultsIndexes,
		createAttachmentsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// SQL DDL statements for table creation
const (
	createIdentitiesTable = `
		CREATE TABLE IF NOT EXISTS identities (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			phone VARCHAR(20) NOT NULL,
			city VARCHAR(100),
			dni VARCHAR(20),
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			identity_id UUID NOT NULL REFERENCES identities(id),
			service_id VARCHAR(50) NOT NULL,
			service_name VARCHAR(100) NOT NULL,
			center_id VARCHAR(50) NOT NULL,
			center_name VARCHAR(100) NOT NULL,
			date VARCHAR(10) NOT NULL,
			time VARCHAR(5) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			notes TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createResultsTable = `
		CREATE TABLE IF NOT EXISTS results (
			id UUID PRIMARY KEY,
			appointment_id UUID UNIQUE NOT NULL REFERENCES appointments(id),
			identity_id UUID NOT NULL REFERENCES identities(id),
			service_name VARCHAR(100) NOT NULL,
			date VARCHAR(10) NOT NULL,
			doctor VARCHAR(100),
			status VARCHAR(20) NOT NULL DEFAULT 'processing',
			diagnosis TEXT,
			recommendations TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createAttachmentsTable = `
		CREATE TABLE IF NOT EXISTS result_attachments (
			id UUID PRIMARY KEY,
			result_id UUID NOT NULL REFERENCES results(id),
			kind VARCHAR(10) NOT NULL,
			file_name VARCHAR(255) NOT NULL,
			uri TEXT NOT NULL,
			mime_type VARCHAR(100),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation
const (
	createIdentitiesIndexes = `
		CREATE INDEX IF NOT EXISTS idx_identities_email ON identities(email);`

	createAppointmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_appointments_identity ON appointments(identity_id);
		CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status);
		CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date);`

	createResultsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_results_identity ON results(identity_id);
		CREATE INDEX IF NOT EXISTS idx_results_appointment ON results(appointment_id);
		CREATE INDEX IF NOT EXISTS idx_results_status ON results(status);`

	createAttachmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_result_attachments_result ON result_attachments(result_id);`
)
