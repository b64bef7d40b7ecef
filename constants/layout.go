package constants

// Layout names are reported back to clients in the report envelope; keep them stable.
const (
	LayoutAPBlocoPalavra  = "AP_BLOCO_PALAVRA"
	LayoutAPBLNaoRotulado = "APBL_NAO_ROTULADO"
	LayoutAPBLRotulado    = "APBL_ROTULADO"
	LayoutAPSemBloco      = "AP_SEM_BLOCO"
	LayoutAPBLNumBL       = "APBL_NUM_BL"
	LayoutCasa            = "CASA"
	LayoutCasaQD          = "CASA_QD"
	LayoutLT              = "LT"
	LayoutQDLT            = "QD_LT"
	LayoutCondomob        = "CONDOMOB"
	LayoutBRCondominios   = "BRCONDOMINIOS"
	LayoutGeneric         = "GENERIC"
)
