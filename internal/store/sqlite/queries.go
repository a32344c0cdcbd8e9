package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
)

// statement is a query and its bound arguments. User input only ever travels
// in args.
type statement struct {
	query string
	args  []any

	// requireRow makes execStatements fail with NOT_FOUND when nothing changed.
	requireRow bool
	subject    string
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execStatements runs stmts in order on tx and stops at the first failure.
func execStatements(ctx context.Context, tx querier, stmts ...statement) error {
	for _, st := range stmts {
		res, err := tx.ExecContext(ctx, st.query, st.args...)
		if err != nil {
			return classify(err, "write "+firstWord(st.query))
		}
		if !st.requireRow {
			continue
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domainerrors.NotFoundf("%s not found", st.subject)
		}
	}
	return nil
}

func firstWord(q string) string {
	q = strings.TrimSpace(q)
	if i := strings.IndexAny(q, " \n\t"); i > 0 {
		return strings.ToLower(q[:i])
	}
	return q
}

// Column lists. Each must match the scan order of its scan function.
const (
	sessionColumns = `id, created_at, updated_at, mode, session_type, notes, tags, sync_status, user_id`
	coffeeColumns  = `id, session_id, name, roaster, origin, brew_method, roast_level, roast_date`
	cupColumns     = `id, coffee_id, position, acidity, sweetness, body, clarity, finish, enjoyment, notes`
	flavorColumns  = `flavor_id, intensity, dominant`
)

// Single-entity reads.
const (
	selectSessionQuery = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	selectCoffeesQuery = `SELECT ` + coffeeColumns + ` FROM coffees WHERE session_id = ? ORDER BY rowid`
	selectCupsQuery    = `SELECT ` + cupColumns + ` FROM cups WHERE coffee_id = ? ORDER BY position`
	selectCupQuery     = `SELECT ` + cupColumns + ` FROM cups WHERE id = ?`
	selectFlavorsQuery = `SELECT ` + flavorColumns + ` FROM selected_flavors
		WHERE cup_id = ? ORDER BY dominant DESC, intensity DESC, id ASC`
	selectSessionTypeQuery = `SELECT session_type FROM sessions WHERE id = ?`
	selectCupSessionQuery  = `SELECT co.session_id FROM cups c
		JOIN coffees co ON co.id = c.coffee_id WHERE c.id = ?`
	countCoffeesQuery = `SELECT COUNT(*) FROM coffees WHERE session_id = ?`
	coffeeInSessionQuery = `SELECT COUNT(*) FROM coffees WHERE id = ? AND session_id = ?`
)

// Aggregations.
const (
	cupTotalExpr = `COALESCE(c.acidity, 0) + COALESCE(c.sweetness, 0) + COALESCE(c.body, 0) +
		COALESCE(c.clarity, 0) + COALESCE(c.finish, 0) + COALESCE(c.enjoyment, 0)`

	coffeeAveragesQuery = `SELECT co.id, COUNT(c.id),
		AVG(c.acidity), AVG(c.sweetness), AVG(c.body), AVG(c.clarity), AVG(c.finish), AVG(c.enjoyment),
		AVG(` + cupTotalExpr + `)
		FROM coffees co LEFT JOIN cups c ON c.coffee_id = co.id
		WHERE co.session_id = ?
		GROUP BY co.id
		ORDER BY MIN(co.rowid)`

	cupTotalsQuery = `SELECT ` + cupTotalExpr + ` FROM cups c WHERE c.coffee_id = ? ORDER BY c.position`

	flavorFrequencyQuery = `SELECT flavor_id, COUNT(*), AVG(intensity)
		FROM selected_flavors
		GROUP BY flavor_id
		ORDER BY COUNT(*) DESC, flavor_id ASC
		LIMIT ?`

	sessionFlavorFrequencyQuery = `SELECT sf.flavor_id, COUNT(*), AVG(sf.intensity)
		FROM selected_flavors sf
		JOIN cups c ON c.id = sf.cup_id
		JOIN coffees co ON co.id = c.coffee_id
		WHERE co.session_id = ?
		GROUP BY sf.flavor_id
		ORDER BY COUNT(*) DESC, sf.flavor_id ASC
		LIMIT ?`

	topFlavorsQuery = flavorFrequencyQuery
)

// encodeTags serializes tags as a JSON array. A []string always marshals.
func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

func roastLevelValue(r *domain.RoastLevel) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

func roastDateValue(c *domain.CoffeeEntry) sql.NullString {
	if c.RoastDate == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: c.RoastDate.Format(domain.RoastDateLayout), Valid: true}
}

func insertSessionStmt(s *domain.Session) statement {
	return statement{
		query: `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args: []any{
			s.ID, formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
			string(s.Mode), string(s.SessionType), s.Notes, encodeTags(s.Tags),
			string(s.SyncStatus), nullableString(s.UserID),
		},
	}
}

// updateSessionStmt leaves mode and session_type untouched; the type is fixed
// at creation.
func updateSessionStmt(s *domain.Session) statement {
	return statement{
		query: `UPDATE sessions SET mode = ?, notes = ?, tags = ?, sync_status = ?, updated_at = ? WHERE id = ?`,
		args: []any{
			string(s.Mode), s.Notes, encodeTags(s.Tags), string(s.SyncStatus), formatTime(s.UpdatedAt), s.ID,
		},
		requireRow: true,
		subject:    "session " + s.ID,
	}
}

func deleteSessionStmt(id string) statement {
	return statement{query: `DELETE FROM sessions WHERE id = ?`, args: []any{id}}
}

// touchSessionStmt moves updated_at forward only.
func touchSessionStmt(sessionID, at string) statement {
	return statement{
		query: `UPDATE sessions SET updated_at = ? WHERE id = ? AND updated_at < ?`,
		args:  []any{at, sessionID, at},
	}
}

func insertCoffeeStmt(c *domain.CoffeeEntry) statement {
	return statement{
		query: `INSERT INTO coffees (` + coffeeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		args: []any{
			c.ID, c.SessionID, c.Name,
			nullString(c.Roaster), nullString(c.Origin), nullString(c.BrewMethod),
			roastLevelValue(c.RoastLevel), roastDateValue(c),
		},
	}
}

func updateCoffeeStmt(c *domain.CoffeeEntry) statement {
	return statement{
		query: `UPDATE coffees SET name = ?, roaster = ?, origin = ?, brew_method = ?,
			roast_level = ?, roast_date = ? WHERE id = ? AND session_id = ?`,
		args: []any{
			c.Name, nullString(c.Roaster), nullString(c.Origin), nullString(c.BrewMethod),
			roastLevelValue(c.RoastLevel), roastDateValue(c), c.ID, c.SessionID,
		},
		requireRow: true,
		subject:    "coffee " + c.ID,
	}
}

func deleteCoffeeStmt(sessionID, coffeeID string) statement {
	return statement{
		query:      `DELETE FROM coffees WHERE id = ? AND session_id = ?`,
		args:       []any{coffeeID, sessionID},
		requireRow: true,
		subject:    "coffee " + coffeeID,
	}
}

func insertCupStmt(c *domain.Cup) statement {
	return statement{
		query: `INSERT INTO cups (` + cupColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args: []any{
			c.ID, c.CoffeeID, c.Position,
			nullInt(c.Acidity), nullInt(c.Sweetness), nullInt(c.Body),
			nullInt(c.Clarity), nullInt(c.Finish), nullInt(c.Enjoyment),
			c.Notes,
		},
	}
}

// updateCupStmt overwrites every score and the notes.
func updateCupStmt(c *domain.Cup) statement {
	return statement{
		query: `UPDATE cups SET acidity = ?, sweetness = ?, body = ?, clarity = ?,
			finish = ?, enjoyment = ?, notes = ? WHERE id = ? AND coffee_id = ?`,
		args: []any{
			nullInt(c.Acidity), nullInt(c.Sweetness), nullInt(c.Body),
			nullInt(c.Clarity), nullInt(c.Finish), nullInt(c.Enjoyment),
			c.Notes, c.ID, c.CoffeeID,
		},
		requireRow: true,
		subject:    "cup " + c.ID,
	}
}

func insertFlavorStmt(cupID string, f domain.SelectedFlavor) statement {
	return statement{
		query: `INSERT INTO selected_flavors (cup_id, flavor_id, intensity, dominant) VALUES (?, ?, ?, ?)`,
		args:  []any{cupID, f.FlavorID, f.Intensity, boolInt(f.Dominant)},
	}
}

func deleteCupFlavorsStmt(cupID string) statement {
	return statement{query: `DELETE FROM selected_flavors WHERE cup_id = ?`, args: []any{cupID}}
}

// replaceFlavorsStmts deletes every association of the cup and inserts flavors.
func replaceFlavorsStmts(cupID string, flavors []domain.SelectedFlavor) []statement {
	stmts := make([]statement, 0, len(flavors)+1)
	stmts = append(stmts, deleteCupFlavorsStmt(cupID))
	for _, f := range flavors {
		stmts = append(stmts, insertFlavorStmt(cupID, f))
	}
	return stmts
}

// insertTreeStmts inserts a session with every descendant.
func insertTreeStmts(s *domain.Session) []statement {
	stmts := []statement{insertSessionStmt(s)}
	for i := range s.Coffees {
		stmts = append(stmts, insertCoffeeTreeStmts(&s.Coffees[i])...)
	}
	return stmts
}

func insertCoffeeTreeStmts(c *domain.CoffeeEntry) []statement {
	stmts := []statement{insertCoffeeStmt(c)}
	for j := range c.Cups {
		cup := &c.Cups[j]
		stmts = append(stmts, insertCupStmt(cup))
		for _, f := range cup.Flavors {
			stmts = append(stmts, insertFlavorStmt(cup.ID, f))
		}
	}
	return stmts
}

// sortColumns and sortDirections are the only strings a filter contributes to
// the query text.
var (
	sortColumns = map[domain.SessionSortField]string{
		domain.SortByCreatedAt: "created_at",
		domain.SortByUpdatedAt: "updated_at",
	}
	sortDirections = map[domain.SortOrder]string{
		domain.SortAsc:  "ASC",
		domain.SortDesc: "DESC",
	}
)

// sessionFilterClause maps each set filter field to a fixed fragment.
func sessionFilterClause(f domain.SessionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Type != nil {
		conds = append(conds, "session_type = ?")
		args = append(args, string(*f.Type))
	}
	if f.CreatedAfter != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, formatTime(*f.CreatedAfter))
	}
	if f.CreatedBefore != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, formatTime(*f.CreatedBefore))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// listSessionIDsQuery expects a normalized filter.
func listSessionIDsQuery(f domain.SessionFilter) statement {
	where, args := sessionFilterClause(f)
	dir := sortDirections[f.Order]
	q := `SELECT id FROM sessions` + where +
		` ORDER BY ` + sortColumns[f.SortBy] + ` ` + dir + `, id ` + dir

	limit := f.Limit
	if limit == 0 {
		limit = -1
	}
	q += ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)
	return statement{query: q, args: args}
}

func countSessionsQuery(f domain.SessionFilter) statement {
	where, args := sessionFilterClause(f)
	return statement{query: `SELECT COUNT(*) FROM sessions` + where, args: args}
}
