package postgres

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

// The branches.days column is text[] so the repository can bind and scan the
// []string day list directly. A scalar text column has no pgx plan for
// []string in either direction, which would fail every branch read and write.
func TestBranchDaysBindAsTextArray(t *testing.T) {
	t.Parallel()

	m := pgtype.NewMap()

	cases := []struct {
		name string
		days []string
	}{
		{name: "english and arabic day names", days: []string{"monday", "الأربعاء"}},
		{name: "single day", days: []string{"friday"}},
		{name: "empty list", days: []string{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf, err := m.Encode(pgtype.TextArrayOID, pgtype.BinaryFormatCode, tc.days, nil)
			if err != nil {
				t.Fatalf("encode []string as text[]: %v", err)
			}

			var scanned []string
			if err := m.Scan(pgtype.TextArrayOID, pgtype.BinaryFormatCode, buf, &scanned); err != nil {
				t.Fatalf("scan text[] into []string: %v", err)
			}
			if len(scanned) == 0 && len(tc.days) == 0 {
				return
			}
			if !reflect.DeepEqual(scanned, tc.days) {
				t.Fatalf("expected %v, got %v", tc.days, scanned)
			}
		})
	}
}
