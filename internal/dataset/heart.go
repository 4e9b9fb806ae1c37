package dataset

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/survkit/survbayes/internal/survival"
)

// heartRaw is the embedded heart-transplant follow-up table: recipient age at
// transplant, death indicator (1 = died during follow-up) and survival time
// in days.
const heartRaw = `age,event,time
54,1,6
42,1,16
52,1,39
48,1,43
54,1,45
36,1,60
47,1,63
56,1,66
49,1,68
46,1,127
52,1,136
48,1,147
61,1,165
43,1,186
49,1,285
41,1,308
28,1,334
46,1,340
54,1,342
48,0,427
43,1,445
45,0,482
47,1,583
51,0,596
52,1,620
53,0,670
26,1,675
47,0,733
56,1,841
29,0,852
52,1,915
38,0,941
46,1,979
48,0,995
32,0,1032
49,1,1141
40,0,1321
43,0,1386
34,0,1400
52,1,1407
36,0,1571
42,0,1586
30,0,1799
`

// LoadHeart loads the embedded heart-transplant dataset through DuckDB. The
// binary covariate is age dichotomized at the in-sample median: subjects
// older than the median form group 1.
func LoadHeart(db *sql.DB) (*Dataset, error) {
	path := filepath.Join(os.TempDir(), "survbayes_heart.csv")
	if err := os.WriteFile(path, []byte(heartRaw), 0644); err != nil {
		return nil, fmt.Errorf("failed to write embedded heart data: %w", err)
	}

	query := fmt.Sprintf(`
		WITH src AS (
			SELECT * FROM read_csv_auto('%s', header = true)
		), med AS (
			SELECT median(age) AS m FROM src
		)
		SELECT
			CAST(src.time AS DOUBLE) AS t,
			CAST(src.event AS INTEGER) AS ev,
			CASE WHEN src.age > med.m THEN 1 ELSE 0 END AS grp
		FROM src, med
		WHERE src.time > 0
		ORDER BY t ASC
	`, path)

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load heart data: %w", err)
	}
	defer rows.Close()

	var obs []survival.Observation
	for rows.Next() {
		var (
			t   float64
			ev  int
			grp int
		)
		if err := rows.Scan(&t, &ev, &grp); err != nil {
			continue
		}
		obs = append(obs, survival.Observation{Time: t, Event: ev == 1, Group: grp})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(obs) == 0 {
		return nil, fmt.Errorf("heart data contained no usable rows")
	}

	return &Dataset{
		Name:          "heart",
		TimeUnit:      "days",
		CovariateName: "age above median",
		Label0:        "younger",
		Label1:        "older",
		Obs:           obs,
	}, nil
}
