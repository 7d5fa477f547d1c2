package codegen

import "github.com/GabrielNunesIT/openapi-domaingen/internal/domain"

// SQL column types emitted for fields.
const (
	SQLUUID      = "UUID"
	SQLTimestamp = "TIMESTAMPTZ"
	SQLText      = "TEXT"
	SQLInteger   = "INTEGER"
	SQLDouble    = "DOUBLE PRECISION"
	SQLBoolean   = "BOOLEAN"
	SQLJSON      = "JSONB"
)

// FieldToSQLType maps a field to a PostgreSQL column type.
func FieldToSQLType(field domain.Field) string {
	switch field.Type {
	case domain.TypeString:
		switch field.Format {
		case "uuid":
			return SQLUUID
		case "date-time":
			return SQLTimestamp
		default:
			return SQLText
		}
	case domain.TypeInteger:
		return SQLInteger
	case domain.TypeNumber:
		return SQLDouble
	case domain.TypeBoolean:
		return SQLBoolean
	case domain.TypeArray, domain.TypeObject:
		return SQLJSON
	default:
		return SQLText
	}
}
