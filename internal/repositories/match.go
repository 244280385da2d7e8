package repositories

import "fmt"

// digitsExpr strips every non-digit from a tracking column, mirroring the
// matcher in internal/tracking so SQL joins and in-memory matching agree.
func digitsExpr(col string) string {
	return fmt.Sprintf(`regexp_replace(COALESCE(%s, ''), '\D', '', 'g')`, col)
}

// suffixMatchCond returns the join condition for two tracking columns: equal
// rightmost 8 digits when both sides have at least 8, otherwise an exact
// trimmed comparison. Empty tracking never matches.
func suffixMatchCond(a, b string) string {
	da := digitsExpr(a)
	db := digitsExpr(b)
	return fmt.Sprintf(`(
		(LENGTH(%[1]s) >= 8 AND LENGTH(%[2]s) >= 8 AND RIGHT(%[1]s, 8) = RIGHT(%[2]s, 8))
		OR (
			(LENGTH(%[1]s) < 8 OR LENGTH(%[2]s) < 8)
			AND TRIM(COALESCE(%[3]s, '')) <> ''
			AND TRIM(COALESCE(%[3]s, '')) = TRIM(COALESCE(%[4]s, ''))
		)
	)`, da, db, a, b)
}

// key18Expr normalizes a tracking column to its uppercase alphanumeric
// rightmost-18 form, the key used for exception identity.
func key18Expr(col string) string {
	return fmt.Sprintf(`RIGHT(UPPER(regexp_replace(COALESCE(%s, ''), '[^A-Za-z0-9]', '', 'g')), 18)`, col)
}
