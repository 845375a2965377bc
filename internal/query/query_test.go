package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alikh-collab/TAZA-back/internal/query"
)

var statuses = []string{"pending", "in_progress", "resolved"}

func TestSelect_AllPredicates(t *testing.T) {
	sql, args := query.From("SELECT * FROM complaints c").
		Where(
			query.EnumEq("c.status", "resolved", statuses...),
			query.Search("river", "c.name", "c.description"),
			query.Eq("c.user_id", int64(7)),
		).
		NewestFirst("c.created_at").
		Page(20, 40).
		Build()

	assert.Equal(t,
		"SELECT * FROM complaints c WHERE c.status = $1 AND (c.name ILIKE $2 ESCAPE '\\' OR c.description ILIKE $2 ESCAPE '\\') AND c.user_id = $3 ORDER BY c.created_at DESC LIMIT $4 OFFSET $5",
		sql)
	assert.Equal(t, []any{"resolved", "%river%", int64(7), 20, 40}, args)
}

func TestSelect_UnknownStatusDropped(t *testing.T) {
	sql, args := query.From("SELECT * FROM complaints").
		Where(query.EnumEq("status", "closed", statuses...)).
		NewestFirst("created_at").
		Page(100, 0).
		Build()

	assert.Equal(t, "SELECT * FROM complaints ORDER BY created_at DESC LIMIT $1 OFFSET $2", sql)
	assert.Equal(t, []any{100, 0}, args)
}

func TestSelect_BlankSearchDropped(t *testing.T) {
	sql, args := query.From("SELECT COUNT(*) FROM users").
		Where(query.Search("   ", "name", "email")).
		Build()

	assert.Equal(t, "SELECT COUNT(*) FROM users", sql)
	assert.Empty(t, args)
}

func TestSelect_SearchValueIsBoundNotInlined(t *testing.T) {
	sql, args := query.From("SELECT * FROM users").
		Where(query.Search("x' OR '1'='1", "name")).
		Build()

	assert.Equal(t, `SELECT * FROM users WHERE (name ILIKE $1 ESCAPE '\')`, sql)
	assert.Equal(t, []any{"%x' OR '1'='1%"}, args)
}

func TestSelect_SearchEscapesWildcards(t *testing.T) {
	sql, args := query.From("SELECT * FROM complaints").
		Where(query.Search(`50%_off\now`, "name")).
		Build()

	assert.Equal(t, `SELECT * FROM complaints WHERE (name ILIKE $1 ESCAPE '\')`, sql)
	assert.Equal(t, []any{`%50\%\_off\\now%`}, args)
}

func TestUpdate_Build(t *testing.T) {
	sql, args, err := query.UpdateTable("complaints").
		Set(query.Set("name", "Dirty tap"), query.Set("location_address", nil), query.Now("updated_at")).
		Where(query.Eq("id", int64(3))).
		Returning("id, updated_at").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE complaints SET name = $1, location_address = $2, updated_at = NOW() WHERE id = $3 RETURNING id, updated_at", sql)
	assert.Equal(t, []any{"Dirty tap", nil, int64(3)}, args)
}

func TestUpdate_NoAssignments(t *testing.T) {
	_, _, err := query.UpdateTable("users").
		Set(query.Now("updated_at")).
		Where(query.Eq("id", 1)).
		Build()

	assert.ErrorIs(t, err, query.ErrNoAssignments)
}
