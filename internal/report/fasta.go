package report

import (
	"fmt"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"

	"github.com/dbsmedya/seqqc/internal/table"
)

// fastaLineWidth is the residue count per FASTA sequence line.
const fastaLineWidth = 60

// FastaID returns the FASTA identifier for a record: its 1-based input row.
func FastaID(r table.Record) string {
	return fmt.Sprintf("seq_%d", r.Row+1)
}

// WriteFASTA exports the records of t as FASTA. A ".gz" suffix on path
// produces gzip output.
func WriteFASTA(path string, t table.Table) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	for _, r := range t.Records {
		id := []byte(FastaID(r))
		rec, err := fastx.NewRecordWithoutValidation(seq.DNAredundant, id, id, nil, []byte(r.Sequence))
		if err != nil {
			w.Close()
			return fmt.Errorf("failed to build FASTA record for row %d: %w", r.Row+1, err)
		}
		rec.FormatToWriter(w, fastaLineWidth)
	}

	return w.Close()
}
