package roster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/cbb-gamelogs/internal/fetch"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
)

const schoolsPage = `
<html><body>
<table id="NCAAM_schools" class="stats_table">
	<thead>
		<tr><th></th><th></th><th colspan="2">Years</th></tr>
		<tr><th>Rk</th><th>School</th><th>From</th><th>To</th></tr>
	</thead>
	<tbody>
		<tr><th>1</th><td>Miami (FL)</td><td>1927</td><td>2026</td></tr>
		<tr><th>2</th><td>Albany (NY)</td><td>2000</td><td>2026</td></tr>
		<tr class="thead"><th>Rk</th><th>School</th><th>From</th><th>To</th></tr>
		<tr><th>3</th><td>Centenary (LA)</td><td>1960</td><td>2011</td></tr>
		<tr><th>4</th><td>Iowa State</td><td>1908</td><td>2026</td></tr>
		<tr><th>5</th><td></td><td>1900</td><td>2026</td></tr>
		<tr><th>6</th><td>Saint Mary's (CA)</td><td>1909</td><td>?</td></tr>
	</tbody>
</table>
</body></html>`

func TestParseTeams(t *testing.T) {
	teams, err := ParseTeams(strings.NewReader(schoolsPage), nil)
	if err != nil {
		t.Fatalf("ParseTeams() error: %v", err)
	}

	want := []Team{
		{Name: "Albany (NY)", Slug: "albany", From: 2000, To: 2026},
		{Name: "Centenary (LA)", Slug: "centenary-la", From: 1960, To: 2011},
		{Name: "Iowa State", Slug: "iowa-state", From: 1908, To: 2026},
		{Name: "Miami (FL)", Slug: "miami-fl", From: 1927, To: 2026},
		{Name: "Saint Mary's (CA)", Slug: "saint-marys-ca", From: 1909, To: 0},
	}

	if len(teams) != len(want) {
		t.Fatalf("ParseTeams() returned %d teams, want %d: %+v", len(teams), len(want), teams)
	}
	for i := range want {
		if teams[i] != want[i] {
			t.Errorf("teams[%d] = %+v, want %+v", i, teams[i], want[i])
		}
	}
}

func TestParseTeams_SlugFunc(t *testing.T) {
	teams, err := ParseTeams(strings.NewReader(schoolsPage), slug.Simple)
	if err != nil {
		t.Fatalf("ParseTeams() error: %v", err)
	}

	if teams[0].Name != "Albany (NY)" || teams[0].Slug != "albany-ny" {
		t.Errorf("teams[0] = %+v, want simple slug albany-ny", teams[0])
	}
}

func TestParseTeams_Errors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no table", `<html><body><table id="other"></table></body></html>`},
		{"no school column", `<table id="NCAAM_schools"><thead><tr><th>Name</th></tr></thead></table>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTeams(strings.NewReader(tt.html), nil)
			if !errors.Is(err, ErrTableNotFound) {
				t.Errorf("ParseTeams() error = %v, want ErrTableNotFound", err)
			}
		})
	}
}

func TestActive(t *testing.T) {
	teams := []Team{
		{Name: "A", To: 2026},
		{Name: "B", To: 2011},
		{Name: "C", To: 2026},
		{Name: "D"},
	}

	got := Active(teams, 2026)

	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "C" {
		t.Errorf("Active() = %+v", got)
	}
	if len(Active(teams, 1999)) != 0 {
		t.Error("Active() for an unknown season should be empty")
	}
}

func TestPairs(t *testing.T) {
	pairs := Pairs([]Team{{Name: "Iowa State", Slug: "iowa-state", To: 2026}})

	if len(pairs) != 1 || pairs[0] != (slug.Pair{Name: "Iowa State", Slug: "iowa-state"}) {
		t.Errorf("Pairs() = %+v", pairs)
	}
}

func TestFetchTeams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SchoolsPath {
			t.Errorf("path = %q, want %q", r.URL.Path, SchoolsPath)
		}
		w.Write([]byte(schoolsPage))
	}))
	defer server.Close()

	s := New(fetch.New(fetch.WithMaxRetries(0)), WithBaseURL(server.URL+"/"))

	teams, err := s.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("FetchTeams() error: %v", err)
	}
	if len(teams) != 5 {
		t.Errorf("FetchTeams() returned %d teams, want 5", len(teams))
	}
}

func TestFetchTeams_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := fetch.New(fetch.WithMaxRetries(1), fetch.WithInitialInterval(time.Millisecond))
	s := New(client, WithBaseURL(server.URL))

	if _, err := s.FetchTeams(context.Background()); err == nil {
		t.Error("FetchTeams() expected error, got nil")
	}
}

func TestLoadNames(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		column  string
		want    []string
		wantErr bool
	}{
		{
			name:   "default column",
			csv:    "Rk,School,Conf\n1,Iowa State,Big 12\n2,\"Saint Mary's (CA)\",WCC\n",
			want:   []string{"Iowa State", "Saint Mary's (CA)"},
		},
		{
			name:   "named column and blanks skipped",
			csv:    "school_name,slug\nMiami (FL),\n ,x\n\"William & Mary\",y\n",
			column: "school_name",
			want:   []string{"Miami (FL)", "William & Mary"},
		},
		{
			name: "byte order mark",
			csv:  "\ufeffSchool\nAlbany (NY)\n",
			want: []string{"Albany (NY)"},
		},
		{
			name: "ragged rows",
			csv:  "Rk,School\n1\n2,Iowa\n",
			want: []string{"Iowa"},
		},
		{
			name:    "missing column",
			csv:     "Name\nIowa\n",
			wantErr: true,
		},
		{
			name:    "empty input",
			csv:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadNames(strings.NewReader(tt.csv), tt.column)
			if tt.wantErr {
				if err == nil {
					t.Errorf("LoadNames() expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadNames() error: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("LoadNames() = %q, want %q", got, tt.want)
			}
		})
	}
}
