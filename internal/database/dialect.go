package database

import (
	"fmt"

	"labscan/internal/config"
)

// Dialect набор фиксированных запросов для конкретной СУБД.
// Имена столбцов никогда не подставляются из данных.
type Dialect struct {
	Name string

	createMigrations string
	selectVersions   string
	insertVersion    string
	tableExists      string
	columnExists     string

	createV1 string
	// addColumn запросы миграции v2, по одному на столбец
	addColumn map[string]string

	insertV1         string
	insertV1WithDate string
	insertV2         string
	insertV2WithDate string
	// returning true, если INSERT сам возвращает id и date (RETURNING)
	returning  bool
	selectDate string

	selectV1   string
	selectV2   string
	latestDate string
}

// v2Columns столбцы, добавляемые миграцией v2, в порядке добавления
var v2Columns = []string{"wbc", "plt", "rbc"}

var mysqlDialect = Dialect{
	Name: config.DriverMySQL,

	createMigrations: `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT NOT NULL PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	selectVersions: `SELECT version FROM schema_migrations ORDER BY version`,
	insertVersion:  `INSERT INTO schema_migrations (version) VALUES (?)`,
	tableExists:    `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`,
	columnExists:   `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`,

	createV1: `CREATE TABLE IF NOT EXISTS general_blood_test (
		id INT AUTO_INCREMENT PRIMARY KEY,
		hemoglobin DOUBLE NULL,
		date DATE NOT NULL DEFAULT (CURRENT_DATE)
	)`,
	addColumn: map[string]string{
		"wbc": `ALTER TABLE general_blood_test ADD COLUMN wbc DOUBLE NULL`,
		"plt": `ALTER TABLE general_blood_test ADD COLUMN plt DOUBLE NULL`,
		"rbc": `ALTER TABLE general_blood_test ADD COLUMN rbc DOUBLE NULL`,
	},

	insertV1:         `INSERT INTO general_blood_test (hemoglobin) VALUES (?)`,
	insertV1WithDate: `INSERT INTO general_blood_test (hemoglobin, date) VALUES (?, ?)`,
	insertV2:         `INSERT INTO general_blood_test (hemoglobin, wbc, plt, rbc) VALUES (?, ?, ?, ?)`,
	insertV2WithDate: `INSERT INTO general_blood_test (hemoglobin, wbc, plt, rbc, date) VALUES (?, ?, ?, ?, ?)`,
	selectDate:       `SELECT date FROM general_blood_test WHERE id = ?`,

	selectV1: `SELECT hemoglobin, NULL, NULL, NULL, date FROM general_blood_test
		WHERE date IS NOT NULL ORDER BY date ASC, id ASC`,
	selectV2: `SELECT hemoglobin, wbc, plt, rbc, date FROM general_blood_test
		WHERE date IS NOT NULL ORDER BY date ASC, id ASC`,
	latestDate: `SELECT MAX(date) FROM general_blood_test`,
}

var postgresDialect = Dialect{
	Name: config.DriverPostgres,

	createMigrations: `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER NOT NULL PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	selectVersions: `SELECT version FROM schema_migrations ORDER BY version`,
	insertVersion:  `INSERT INTO schema_migrations (version) VALUES ($1)`,
	tableExists:    `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`,
	columnExists:   `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`,

	createV1: `CREATE TABLE IF NOT EXISTS general_blood_test (
		id SERIAL PRIMARY KEY,
		hemoglobin DOUBLE PRECISION,
		date DATE NOT NULL DEFAULT CURRENT_DATE
	)`,
	addColumn: map[string]string{
		"wbc": `ALTER TABLE general_blood_test ADD COLUMN wbc DOUBLE PRECISION`,
		"plt": `ALTER TABLE general_blood_test ADD COLUMN plt DOUBLE PRECISION`,
		"rbc": `ALTER TABLE general_blood_test ADD COLUMN rbc DOUBLE PRECISION`,
	},

	insertV1:         `INSERT INTO general_blood_test (hemoglobin) VALUES ($1) RETURNING id, date`,
	insertV1WithDate: `INSERT INTO general_blood_test (hemoglobin, date) VALUES ($1, $2) RETURNING id, date`,
	insertV2:         `INSERT INTO general_blood_test (hemoglobin, wbc, plt, rbc) VALUES ($1, $2, $3, $4) RETURNING id, date`,
	insertV2WithDate: `INSERT INTO general_blood_test (hemoglobin, wbc, plt, rbc, date) VALUES ($1, $2, $3, $4, $5) RETURNING id, date`,
	returning:        true,

	selectV1: `SELECT hemoglobin, NULL::double precision, NULL::double precision, NULL::double precision, date FROM general_blood_test
		WHERE date IS NOT NULL ORDER BY date ASC, id ASC`,
	selectV2: `SELECT hemoglobin, wbc, plt, rbc, date FROM general_blood_test
		WHERE date IS NOT NULL ORDER BY date ASC, id ASC`,
	latestDate: `SELECT MAX(date) FROM general_blood_test`,
}

// DialectFor возвращает диалект по имени драйвера из конфигурации
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return mysqlDialect, nil
	case config.DriverPostgres:
		return postgresDialect, nil
	default:
		return Dialect{}, fmt.Errorf("нет SQL диалекта для %q", driver)
	}
}

// insertStatement выбирает один из фиксированных INSERT и его аргументы
func (d Dialect) insertStatement(version int, hemoglobin, wbc, plt, rbc interface{}, date string) (string, []interface{}) {
	if version < SchemaV2 {
		if date == "" {
			return d.insertV1, []interface{}{hemoglobin}
		}
		return d.insertV1WithDate, []interface{}{hemoglobin, date}
	}
	if date == "" {
		return d.insertV2, []interface{}{hemoglobin, wbc, plt, rbc}
	}
	return d.insertV2WithDate, []interface{}{hemoglobin, wbc, plt, rbc, date}
}

func (d Dialect) selectStatement(version int) string {
	if version < SchemaV2 {
		return d.selectV1
	}
	return d.selectV2
}
