package response

// ErrCode is a typed error code enum for consistent shell error identification.
type ErrCode string

const (
	// ─── Input ─────────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidNumber   ErrCode = "INVALID_NUMBER"
	ErrInvalidMinGrade ErrCode = "INVALID_MIN_GRADE"
	ErrPathRequired    ErrCode = "PATH_REQUIRED"
	ErrUnknownCommand  ErrCode = "UNKNOWN_COMMAND"

	// ─── Roster ────────────────────────────────────────────────────────
	ErrNoData          ErrCode = "NO_DATA"
	ErrNothingToExport ErrCode = "NOTHING_TO_EXPORT"

	// ─── Files ─────────────────────────────────────────────────────────
	ErrSchemaMismatch ErrCode = "SCHEMA_MISMATCH"
	ErrMalformedFile  ErrCode = "MALFORMED_FILE"
	ErrSaveFailed     ErrCode = "SAVE_FAILED"
	ErrLoadFailed     ErrCode = "LOAD_FAILED"
	ErrExportFailed   ErrCode = "EXPORT_FAILED"

	// ─── Internal ──────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Input ─────────────────────────────────────────────────────────
	case ErrValidation:
		return "Todos os campos devem ser preenchidos."
	case ErrInvalidNumber:
		return "Idade e Nota Final devem ser números válidos."
	case ErrInvalidMinGrade:
		return "A média mínima informada não é um número válido."
	case ErrPathRequired:
		return "Informe o caminho do arquivo CSV."
	case ErrUnknownCommand:
		return "Comando desconhecido. Digite 'help' para ver os comandos."

	// ─── Roster ────────────────────────────────────────────────────────
	case ErrNoData:
		return "Não há dados cadastrados para filtrar."
	case ErrNothingToExport:
		return "Não há dados para exportar no relatório."

	// ─── Files ─────────────────────────────────────────────────────────
	case ErrSchemaMismatch:
		return "O arquivo não tem as colunas corretas (Nome, Idade, Curso, Nota Final)."
	case ErrMalformedFile:
		return "O arquivo não é um CSV válido."
	case ErrSaveFailed:
		return "Falha ao salvar o arquivo CSV."
	case ErrLoadFailed:
		return "Falha ao carregar o arquivo CSV."
	case ErrExportFailed:
		return "Falha ao exportar o relatório CSV."

	// ─── Internal ──────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocorreu um erro interno."
	default:
		return "Ocorreu um erro inesperado."
	}
}
