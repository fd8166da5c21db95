package docnumber_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-api/internal/domain/docnumber"
)

var enero2025 = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func TestGenerate_PrimerDocumentoDelMes(t *testing.T) {
	g := docnumber.NewGenerator()

	id := g.Generate(docnumber.PrefixRequest, nil, enero2025)
	require.Equal(t, "RO-202501-001", id)
}

func TestGenerate_SiguienteSecuencia(t *testing.T) {
	g := docnumber.NewGenerator()

	existing := []string{"RO-202501-001", "RO-202501-002"}
	id := g.Generate(docnumber.PrefixRequest, existing, enero2025)
	assert.Equal(t, "RO-202501-003", id)
}

// La secuencia es el menor entero libre: si el 002 fue borrado o nunca se usó,
// se rellena el hueco en vez de avanzar.
func TestGenerate_RellenaHuecos(t *testing.T) {
	g := docnumber.NewGenerator()

	existing := []string{"RO-202501-001", "RO-202501-003", "RO-202501-004"}
	id := g.Generate(docnumber.PrefixRequest, existing, enero2025)
	assert.Equal(t, "RO-202501-002", id)
}

// Otros prefijos y otros meses no cuentan para la secuencia.
func TestGenerate_IgnoraOtrosPrefijosYMeses(t *testing.T) {
	g := docnumber.NewGenerator()

	existing := []string{
		"LN-202501-001",
		"RO-202412-001",
		"RO-202412-002",
	}
	id := g.Generate(docnumber.PrefixRequest, existing, enero2025)
	assert.Equal(t, "RO-202501-001", id)
}

// Ids duplicados o malformados no hacen fallar la numeración.
func TestGenerate_ToleraDuplicadosYBasura(t *testing.T) {
	g := docnumber.NewGenerator()

	existing := []string{
		"RO-202501-001",
		"RO-202501-001", // duplicado
		"RO-202501-abc", // malformado
		"",              // vacío
		"RO-202501--5",  // secuencia no positiva
	}
	id := g.Generate(docnumber.PrefixRequest, existing, enero2025)
	assert.Equal(t, "RO-202501-002", id)
}

// Determinismo: el mismo conjunto de entrada produce siempre el mismo número.
func TestGenerate_Determinista(t *testing.T) {
	g := docnumber.NewGenerator()

	existing := []string{"RT-202501-002", "RT-202501-001"}
	first := g.Generate(docnumber.PrefixReturn, existing, enero2025)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, g.Generate(docnumber.PrefixReturn, existing, enero2025))
	}
}

// Más de 999 documentos en el mes: la secuencia sigue creciendo sin colisionar.
func TestGenerate_SecuenciaSobreTresDigitos(t *testing.T) {
	g := docnumber.NewGenerator()

	existing := make([]string, 0, 1000)
	for i := 1; i <= 999; i++ {
		existing = append(existing, g.Generate(docnumber.PrefixLoan, existing, enero2025))
	}
	id := g.Generate(docnumber.PrefixLoan, existing, enero2025)
	assert.Equal(t, "LN-202501-1000", id)
	assert.NotContains(t, existing, id)
}
