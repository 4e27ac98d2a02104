package storage

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Collection names. These, together with the index definitions below, are
// the persisted contract: renaming any of them breaks previously stored data.
const (
	Classes       = "classes"
	Students      = "students"
	SeatingPlans  = "seating_plans"
	Surveys       = "surveys"
	Votes         = "votes"
	PrintProfiles = "print_profiles"
	AppSettings   = "app_settings"
)

// Index names shared by collections.
const (
	IndexByClassID       = "by_classId"
	IndexByClassIDNumber = "by_classId_number"
	IndexByClassIDName   = "by_classId_name"
	IndexByUpdatedAt     = "by_updatedAt"
	IndexByGrade         = "by_grade"
	IndexByTemplateID    = "by_templateId"
	IndexByYearTermGrade = "by_year_term_grade_class"
)

// Index is a secondary index over document fields, maintained by the engine
// on every write.
type Index struct {
	Name   string
	Fields []string
	Unique bool
}

// Collection is a named partition of the store with one primary key field
// and zero or more secondary indexes.
type Collection struct {
	Name    string
	Key     string
	Indexes []Index
}

// Schema lists every collection of the store. Version steps below may only
// add to it.
var Schema = []Collection{
	{
		Name: Classes,
		Key:  "id",
		Indexes: []Index{
			{Name: IndexByYearTermGrade, Fields: []string{"schoolYear", "term", "grade", "classNo"}, Unique: true},
			{Name: IndexByUpdatedAt, Fields: []string{"updatedAt"}},
		},
	},
	{
		Name: Students,
		Key:  "id",
		Indexes: []Index{
			{Name: IndexByClassID, Fields: []string{"classId"}},
			{Name: IndexByClassIDNumber, Fields: []string{"classId", "number"}, Unique: true},
			{Name: IndexByClassIDName, Fields: []string{"classId", "name"}},
		},
	},
	{
		Name: SeatingPlans,
		Key:  "id",
		Indexes: []Index{
			{Name: IndexByClassID, Fields: []string{"classId"}},
			{Name: IndexByUpdatedAt, Fields: []string{"updatedAt"}},
		},
	},
	{
		Name: Surveys,
		Key:  "id",
		Indexes: []Index{
			{Name: IndexByClassID, Fields: []string{"classId"}},
			{Name: IndexByGrade, Fields: []string{"grade"}},
		},
	},
	{
		Name: Votes,
		Key:  "id",
		Indexes: []Index{
			{Name: IndexByClassID, Fields: []string{"classId"}},
		},
	},
	{
		Name: PrintProfiles,
		Key:  "id",
		Indexes: []Index{
			{Name: IndexByClassID, Fields: []string{"classId"}},
			{Name: IndexByTemplateID, Fields: []string{"templateId"}},
		},
	},
	{
		Name: AppSettings,
		Key:  "key",
	},
}

// SchemaVersion is the current schema version. It only ever increases;
// step N's migration is a no-op when the database is already at version >= N.
const SchemaVersion = 1

// migrations holds one additive, idempotent step per version; step at
// slice position i upgrades the database to version i+1.
var migrations = []func(tx *sqlx.Tx) error{
	migrateV1,
}

func migrateV1(tx *sqlx.Tx) error {
	for _, col := range Schema {
		if err := createCollection(tx, col); err != nil {
			return err
		}
	}
	return nil
}

func createCollection(tx *sqlx.Tx, col Collection) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		k TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`, col.Name)
	if _, err := tx.Exec(ddl); err != nil {
		return fmt.Errorf("create collection %s: %w", col.Name, err)
	}
	for _, idx := range col.Indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		exprs := make([]string, len(idx.Fields))
		for i, f := range idx.Fields {
			exprs[i] = jsonField(f)
		}
		ddl := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique, sqlIndexName(col.Name, idx.Name), col.Name, strings.Join(exprs, ", "))
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("create index %s.%s: %w", col.Name, idx.Name, err)
		}
	}
	return nil
}

// sqlIndexName namespaces the logical index name: SQLite index names are
// global while IndexedDB scoped them per store.
func sqlIndexName(collection, index string) string {
	return "idx_" + collection + "_" + index
}

func jsonField(field string) string {
	return fmt.Sprintf("json_extract(doc, '$.%s')", field)
}
