package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/survkit/survbayes/internal/survival"
)

// LoadMastectomy fetches the HSAUR mastectomy dataset (survival in months
// after mastectomy, grouped by metastasis status) and loads it through
// DuckDB. The upstream column is spelled "metastized"; both spellings are
// accepted.
func LoadMastectomy(ctx context.Context, db *sql.DB, fetcher *Fetcher) (*Dataset, error) {
	path, err := fetcher.Fetch(ctx, "HSAUR", "mastectomy")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mastectomy data: %w", err)
	}

	obs, err := scanCensoredRows(db, mastectomyQuery(path, "metastized"))
	if err != nil {
		// Some mirrors carry the corrected column name.
		obs, err = scanCensoredRows(db, mastectomyQuery(path, "metastasized"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mastectomy data: %w", err)
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("mastectomy data contained no usable rows")
	}

	return &Dataset{
		Name:          "mastectomy",
		TimeUnit:      "months",
		CovariateName: "metastasized",
		Label0:        "not metastasized",
		Label1:        "metastasized",
		Obs:           obs,
	}, nil
}

func mastectomyQuery(path, groupCol string) string {
	return fmt.Sprintf(`
		SELECT
			CAST(time AS DOUBLE) AS t,
			lower(CAST(event AS VARCHAR)) AS ev,
			lower(CAST(%s AS VARCHAR)) AS grp
		FROM read_csv_auto('%s', header = true)
		WHERE time IS NOT NULL AND time > 0
		ORDER BY t ASC
	`, groupCol, path)
}

func scanCensoredRows(db *sql.DB, query string) ([]survival.Observation, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	defer rows.Close()

	var obs []survival.Observation
	for rows.Next() {
		var (
			t   float64
			ev  string
			grp string
		)

		if err := rows.Scan(&t, &ev, &grp); err != nil {
			continue
		}

		obs = append(obs, survival.Observation{
			Time:  t,
			Event: parseBool(ev),
			Group: boolToGroup(parseBool(grp)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return obs, nil
}

func parseBool(s string) bool {
	switch strings.TrimSpace(s) {
	case "true", "t", "1", "yes", "y":
		return true
	}
	return false
}

func boolToGroup(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RegisterObservations materializes a dataset as a DuckDB table so summary
// statistics can be computed in SQL.
func RegisterObservations(db *sql.DB, ds *Dataset) error {
	if _, err := db.Exec(`CREATE OR REPLACE TABLE observations (grp INTEGER, time DOUBLE, event BOOLEAN)`); err != nil {
		return fmt.Errorf("failed to create observations table: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO observations VALUES ")
	for i, o := range ds.Obs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("(%d, %g, %t)", o.Group, o.Time, o.Event))
	}

	if _, err := db.Exec(sb.String()); err != nil {
		return fmt.Errorf("failed to insert observations: %w", err)
	}

	return nil
}

// Summary computes per-group counts, censoring rates and median observed
// times for a registered dataset.
func Summary(db *sql.DB, ds *Dataset) ([]GroupSummary, error) {
	if err := RegisterObservations(db, ds); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT
			grp,
			COUNT(*) AS n,
			CAST(SUM(CASE WHEN event THEN 1 ELSE 0 END) AS INTEGER) AS events,
			1.0 - AVG(CASE WHEN event THEN 1.0 ELSE 0.0 END) AS censor_rate,
			median(time) AS median_time
		FROM observations
		GROUP BY grp
		ORDER BY grp ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize dataset: %w", err)
	}
	defer rows.Close()

	var summaries []GroupSummary
	for rows.Next() {
		var s GroupSummary
		if err := rows.Scan(&s.Group, &s.N, &s.Events, &s.CensorRate, &s.MedianTime); err != nil {
			continue
		}
		s.Label = ds.GroupLabel(s.Group)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return summaries, nil
}
