package columnar_test

import (
	"fmt"
	"log"
	"os"

	formats "github.com/halhen/jsonlite/pkg/formats/columnar"
	"github.com/halhen/jsonlite/pkg/json"
	"github.com/halhen/jsonlite/pkg/simplify"
)

// Example writes a simplified table as row-oriented JSON.
func Example() {
	rows, err := json.Unmarshal([]byte(`[{"id": 1, "tag": "a"}, {"id": 2.5}]`))
	if err != nil {
		log.Fatal(err)
	}
	t, ok := simplify.New().Table(rows)
	if !ok {
		log.Fatal("not a list of records")
	}

	w, err := formats.NewWriter(os.Stdout, &formats.WriterConfig{
		Format:      formats.JSON,
		Orientation: json.Rows,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := w.Write(t); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(w.RowsWritten(), "rows")

	// Output:
	// [{"id":1,"tag":"a"},{"id":2.5}]
	// 2 rows
}

// ExampleToArrowSchema shows the Arrow types chosen for each column.
func ExampleToArrowSchema() {
	rows, _ := json.Unmarshal([]byte(`[{"ok": true, "n": 3, "x": 0.5, "s": "t", "l": [1, 2]}]`))
	t, _ := simplify.New().Table(rows)

	for _, f := range formats.ToArrowSchema(t).Fields() {
		fmt.Println(f.Name, f.Type)
	}

	// Output:
	// l utf8
	// n int64
	// ok bool
	// s utf8
	// x float64
}
