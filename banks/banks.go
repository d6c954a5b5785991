package banks

// ID identifies a bank in the catalog
type ID string

const (
	Bancolombia         ID = "bancolombia"
	BBVA                ID = "bbva"
	ScotiabankColpatria ID = "scotiabank_colpatria"
	BancoCajaSocial     ID = "banco_caja_social"
	AVVillas            ID = "avvillas"
	Itau                ID = "itau"
	FNA                 ID = "fna"
	BancoPopular        ID = "banco_popular"
	BancoDeBogota       ID = "banco_de_bogota"
	BancoDeOccidente    ID = "banco_de_occidente"
	Davivienda          ID = "davivienda"
	BancoAgrario        ID = "banco_agrario"
	Bancoomeva          ID = "bancoomeva"
)

func (id ID) String() string {
	return string(id)
}

// Bank is one catalog entry: the canonical display name and the public
// mortgage information URL
type Bank struct {
	Name string
	URL  string
}

// catalog is fixed at process start and never mutated at runtime
var catalog = map[ID]Bank{
	Bancolombia: {
		Name: "Bancolombia",
		URL:  "https://www.bancolombia.com/personas/creditos/vivienda/credito-hipotecario-para-comprar-vivienda",
	},
	BBVA: {
		Name: "BBVA Colombia",
		URL:  "https://www.bbva.com.co/personas/productos/prestamos/vivienda/hipotecario.html",
	},
	ScotiabankColpatria: {
		Name: "Scotiabank Colpatria",
		URL:  "https://www.scotiabankcolpatria.com/personas/creditos-hipotecarios",
	},
	BancoCajaSocial: {
		Name: "Banco Caja Social",
		URL:  "https://www.bancocajasocial.com/creditos-de-vivienda/credito-hipotecario/",
	},
	AVVillas: {
		Name: "Banco AV Villas",
		URL:  "https://www.avvillas.com.co/credito-hipotecario",
	},
	Itau: {
		Name: "Banco Itaú Colombia",
		URL:  "https://banco.itau.co/web/personas/prestamos/creditos-de-vivienda",
	},
	FNA: {
		Name: "Fondo Nacional del Ahorro",
		URL:  "https://www.fna.gov.co/vivienda",
	},
	BancoPopular: {
		Name: "Banco Popular",
		URL:  "https://www.bancopopular.com.co/wps/portal/bancopopular/inicio/para-ti/financiacion-vivienda",
	},
	BancoDeBogota: {
		Name: "Banco de Bogotá",
		URL:  "https://www.bancodebogota.com/personas/creditos/vivienda",
	},
	BancoDeOccidente: {
		Name: "Banco de Occidente",
		URL:  "https://www.bancodeoccidente.com.co/wps/portal/banco-de-occidente/bancodeoccidente/para-personas/creditos/vivienda",
	},
	Davivienda: {
		Name: "Davivienda",
		URL:  "https://www.davivienda.com/personas/credito-de-vivienda-inmuebles/credito-hipotecario",
	},
	BancoAgrario: {
		Name: "Banco Agrario",
		URL:  "https://www.bancoagrario.gov.co/personas/asalariado-independiente-pensionado/credito-hipotecario",
	},
	Bancoomeva: {
		Name: "Bancoomeva",
		URL:  "https://vivienda.coomeva.com.co/",
	},
}

// order pins a stable catalog iteration order
var order = []ID{
	Bancolombia,
	BBVA,
	ScotiabankColpatria,
	BancoCajaSocial,
	AVVillas,
	Itau,
	FNA,
	BancoPopular,
	BancoDeBogota,
	BancoDeOccidente,
	Davivienda,
	BancoAgrario,
	Bancoomeva,
}

// Name returns the canonical display name for the given bank id
func Name(id ID) string {
	return catalog[id].Name
}

// URL returns the reference information URL for the given bank id
func URL(id ID) string {
	return catalog[id].URL
}

// Known reports whether the given id is part of the catalog
func Known(id ID) bool {
	_, ok := catalog[id]

	return ok
}

// All returns the catalog ids in their fixed order
func All() []ID {
	out := make([]ID, len(order))
	copy(out, order)

	return out
}
