package mzidentml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"golang.org/x/net/html/charset"
)

// Read reads mzIdentML content from io.reader
func Read(reader io.Reader) (MzIdentML, error) {
	var m MzIdentML
	var content mzIdentMLContent
	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	if err := d.Decode(&content); err != nil {
		return m, err
	}

	pepIdx := make(map[string]int, len(content.Peptide))
	for i, p := range content.Peptide {
		pepIdx[p.ID] = i
	}

	for _, res := range content.SpectrumIdentificationResult {
		rt, err := retentionTime(res.CvPar)
		if err != nil {
			return m, fmt.Errorf("spectrum %s: %w", res.SpectrumID, err)
		}
		for _, item := range res.SpectrumIdentificationItem {
			k, ok := pepIdx[item.PeptideRef]
			if !ok {
				return m, fmt.Errorf("%w %s", ErrUnknownPeptide, item.PeptideRef)
			}
			pep := content.Peptide[k]
			ident := Identification{
				PepID:         pep.ID,
				PepSeq:        pep.PeptideSequence,
				Charge:        item.ChargeState,
				SpecID:        res.SpectrumID,
				RetentionTime: rt,
			}
			for _, mod := range pep.Modification {
				ident.ModMass += mod.MonoisotopicMassDelta
			}
			m.Idents = append(m.Idents, ident)
		}
	}
	return m, nil
}

// retentionTime returns the retention time in seconds from the CV terms of
// a spectrum identification result, or -1 if none is present.
// There are multiple CV terms that can be used to report the
// retention time. In order of decreasing preference we use:
// 1. MS:1000016 - scan start time
// 2. MS:1000894 - retention time
// 3. MS:1000826 - elution time
// 4. MS:1001114 - retention time (deprecated)
func retentionTime(cvs []cvParam) (float64, error) {
	rt := float64(-1)
	prio := math.MaxInt32
	for _, cv := range cvs {
		p, ok := rtTermPriority[cv.Accession]
		if !ok || p >= prio {
			continue
		}
		v, err := strconv.ParseFloat(cv.Value, 64)
		if err != nil {
			return -1, err
		}
		// Minutes, otherwise assume seconds
		if cv.UnitAccession == "UO:0000031" || cv.UnitAccession == "MS:1000038" {
			v *= 60
		}
		rt = v
		prio = p
	}
	return rt, nil
}

var rtTermPriority = map[string]int{
	"MS:1000016": 1,
	"MS:1000894": 2,
	"MS:1000826": 3,
	"MS:1001114": 4,
}
