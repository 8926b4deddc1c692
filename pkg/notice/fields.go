package notice

// Document-level field names. They double as the draft document keys.
const (
	FieldTopHeader      = "topHeader"
	FieldTitle          = "header1"
	FieldMeta           = "header2"
	FieldDescription    = "changeDescription"
	FieldImpact         = "impactText"
	FieldQuestions      = "questionsText"
	FieldInternalFooter = "internalFooter"
	FieldSchedule       = "tableData"
	FieldOptional       = "optionalHeadersData"
)

// Schedule row field names.
const (
	RowFieldChangeID    = "chg"
	RowFieldRegion      = "region"
	RowFieldEnvironment = "environment"
	RowFieldStartTime   = "startTime"
	RowFieldEndTime     = "endTime"
	RowFieldStatus      = "status"
)

// Optional header field names.
const (
	HeaderFieldName    = "name"
	HeaderFieldContent = "content"
)

// DocumentFields lists the editable document-level text fields.
func DocumentFields() []string {
	return []string{
		FieldTopHeader,
		FieldTitle,
		FieldMeta,
		FieldDescription,
		FieldImpact,
		FieldQuestions,
		FieldInternalFooter,
	}
}

// RowFields lists the schedule row fields in table column order.
func RowFields() []string {
	return []string{
		RowFieldChangeID,
		RowFieldRegion,
		RowFieldEnvironment,
		RowFieldStartTime,
		RowFieldEndTime,
		RowFieldStatus,
	}
}
