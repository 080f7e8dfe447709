package ledger

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV journals executed trades to a CSV file. Useful for spreadsheet
// review when a database is overkill.
type CSV struct {
	w *csv.Writer
	f *os.File
}

// NewCSV opens the journal at path, appending to an existing file so
// history survives across invocations. The header row is written only
// when the file is new.
func NewCSV(path string) (*CSV, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write([]string{"trade_id", "time", "side", "symbol", "shares", "price", "profit_loss", "reason"}); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) Record(t TradeRecord) error {
	err := j.w.Write([]string{
		t.ID,
		t.Time.Format(time.RFC3339),
		string(t.Side),
		t.Symbol,
		strconv.Itoa(t.Shares),
		fmtF(t.Price),
		fmtF(t.ProfitLoss),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}

func fmtF(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
