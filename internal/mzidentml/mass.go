package mzidentml

import (
	"strconv"

	"github.com/524D/mzcompare/internal/table"
)

const massProton = float64(1.007276466879)
const massH2O = float64(18.0105647)

// Masses of amino acids (minus H2O)
var aaMass = map[rune]float64{
	'A': 71.0371138,
	'C': 103.0091848,
	'D': 115.0269430,
	'E': 129.0425931,
	'F': 147.0684139,
	'G': 57.0214637,
	'H': 137.0589119,
	'I': 113.0840640,
	'K': 128.0949630,
	'L': 113.0840640,
	'M': 131.0404849,
	'N': 114.0429274,
	'P': 97.0527638,
	'O': 237.1477269, // Pyrrolysine
	'Q': 128.0585775,
	'R': 156.1011110,
	'S': 87.0320284,
	'T': 101.0476785,
	'U': 144.9595902, // Selenocysteine
	'V': 99.0684139,
	'W': 186.0793129,
	'Y': 163.0633285,
}

// pepMass computes the lowest isotope mass of an unmodified peptide
func pepMass(pepSeq string) (float64, error) {
	m := massH2O
	for _, aa := range pepSeq {
		aam, ok := aaMass[aa]
		if !ok {
			return 0.0, ErrUnknownResidue
		}
		m += aam
	}
	return m, nil
}

// Mz returns the m/z of the lowest isotope of the identified,
// modified peptide at the identified charge
func (ident Identification) Mz() (float64, error) {
	if ident.Charge <= 0 {
		return 0, ErrNoCharge
	}
	m, err := pepMass(ident.PepSeq)
	if err != nil {
		return 0, err
	}
	z := float64(ident.Charge)
	return (m + ident.ModMass + z*massProton) / z, nil
}

// Table columns produced by ToTable
const (
	ColMz      = "mz"
	ColRT      = "rt"
	ColCharge  = "charge"
	ColPeptide = "peptide"
)

// ToTable converts the identifications to a feature table. Retention
// times are in seconds. Identifications for which no m/z can be computed
// are skipped; the number of skipped identifications is returned.
func (m *MzIdentML) ToTable(name string) (table.Table, int) {
	t := table.Table{
		Name:   name,
		Header: []string{ColMz, ColRT, ColCharge, ColPeptide},
		Rows:   make([][]string, 0, len(m.Idents)),
	}
	skipped := 0
	for _, ident := range m.Idents {
		mz, err := ident.Mz()
		if err != nil {
			skipped++
			continue
		}
		rt := ``
		if ident.RetentionTime >= 0 {
			rt = strconv.FormatFloat(ident.RetentionTime, 'g', -1, 64)
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatFloat(mz, 'g', -1, 64),
			rt,
			strconv.Itoa(ident.Charge),
			ident.PepSeq,
		})
	}
	return t, skipped
}
