package ingest

import (
	"reflect"
	"testing"
)

func TestParseTableQuoting(t *testing.T) {
	data := []byte("Track Name,Artist Name,Genres,Popularity\n" +
		`"Bo,Peep","Karen ""K"" Lee",Pop|Dance,77` + "\n")

	header, rows := ParseTable(data, nil)

	wantHeader := []string{"Track Name", "Artist Name", "Genres", "Popularity"}
	if !reflect.DeepEqual(header, wantHeader) {
		t.Fatalf("header = %v, want %v", header, wantHeader)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	row := rows[0]
	if row["Track Name"] != "Bo,Peep" {
		t.Errorf("Track Name = %q, want %q", row["Track Name"], "Bo,Peep")
	}
	if row["Artist Name"] != `Karen "K" Lee` {
		t.Errorf("Artist Name = %q, want %q", row["Artist Name"], `Karen "K" Lee`)
	}
	if row["Genres"] != "Pop|Dance" {
		t.Errorf("Genres = %q, want %q", row["Genres"], "Pop|Dance")
	}
	if row["Popularity"] != "77" {
		t.Errorf("Popularity = %q, want %q", row["Popularity"], "77")
	}
}

func TestParseTableStripsBOM(t *testing.T) {
	data := []byte("\uFEFFname,artist\nSong,Someone\n")
	header, rows := ParseTable(data, nil)
	if len(header) != 2 || header[0] != "name" {
		t.Errorf("header = %v, BOM not stripped", header)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestParseTableLineEndings(t *testing.T) {
	for name, data := range map[string]string{
		"crlf": "name,artist\r\nA,B\r\nC,D\r\n",
		"cr":   "name,artist\rA,B\rC,D\r",
		"lf":   "name,artist\nA,B\nC,D\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, rows := ParseTable([]byte(data), nil)
			if len(rows) != 2 {
				t.Errorf("got %d rows, want 2", len(rows))
			}
		})
	}
}

func TestParseTableSkipsLeadingBlankLinesBeforeHeader(t *testing.T) {
	data := []byte("\n\n  \nname,artist\nA,B\n")
	header, rows := ParseTable(data, nil)
	if len(header) != 2 || header[0] != "name" {
		t.Errorf("header = %v, want [name artist]", header)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestParseTablePadsShortRows(t *testing.T) {
	data := []byte("name,artist,genre\nSolo\n")
	_, rows := ParseTable(data, nil)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["artist"] != "" || rows[0]["genre"] != "" {
		t.Errorf("short row not padded: %v", rows[0])
	}
}

func TestParseTableSkipsBlankRows(t *testing.T) {
	data := []byte("name,artist\nA,B\n\n   \nC,D\n")
	_, rows := ParseTable(data, nil)
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestParseTableRequiredColumn(t *testing.T) {
	data := []byte("id,name\n1,First\n,NoID\n2,Second\n")
	_, rows := ParseTable(data, []string{"id"})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (row with empty id dropped)", len(rows))
	}
	for _, r := range rows {
		if r["id"] == "" {
			t.Errorf("row with empty required column survived: %v", r)
		}
	}
}

func TestParseTableRequiredColumnAbsentFromHeader(t *testing.T) {
	// The required key only applies when the header actually carries it.
	data := []byte("name,artist\nA,B\n")
	_, rows := ParseTable(data, []string{"id"})
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestParseTableEmptyInput(t *testing.T) {
	header, rows := ParseTable(nil, nil)
	if header != nil || rows != nil {
		t.Errorf("empty input should yield nothing, got header=%v rows=%v", header, rows)
	}
}

func TestParseTableRestartable(t *testing.T) {
	data := []byte("name,artist\nA,B\nC,D\n")
	_, first := ParseTable(data, nil)
	_, second := ParseTable(data, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parsing the same text gave different rows: %v vs %v", first, second)
	}
}

func TestParseTableUnterminatedQuote(t *testing.T) {
	// The broken line consumes to end of line but the next line still parses.
	data := []byte("name,artist\n\"broken,oops\nA,B\n")
	_, rows := ParseTable(data, nil)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1]["name"] != "A" {
		t.Errorf("row after malformed line = %v", rows[1])
	}
}
