package stormsql_test

import (
	"testing"
	"time"

	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/itemlist/pkg/stormsql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelect(t *testing.T) {
	sc, err := stormsql.ParseSelect("SELECT Summary, Priority FROM items WHERE OwnerID = 'abc' AND IsComplete = false ORDER BY Priority DESC LIMIT 2, 5")
	require.NoError(t, err)

	assert.Equal(t, []string{"Summary", "Priority"}, sc.SelectedFields)
	assert.False(t, sc.Count)
	assert.Equal(t, "items", sc.Tablename)
	assert.Equal(t, 2, sc.Skip)
	assert.Equal(t, 5, sc.Limit)
	assert.Equal(t, []string{"Priority"}, sc.OrderBy)
	assert.True(t, sc.OrderByReversed)
	assert.Equal(t, q.And(q.Eq("OwnerID", "abc"), q.Eq("IsComplete", false)), sc.Matcher)
}

func TestParseSelect_Count(t *testing.T) {
	sc, err := stormsql.ParseSelect("SELECT count(*) FROM users")
	require.NoError(t, err)

	assert.True(t, sc.Count)
	assert.Equal(t, "users", sc.Tablename)
	assert.Equal(t, q.And(), sc.Matcher)
}

func TestParseSelect_Dates(t *testing.T) {
	sc, err := stormsql.ParseSelect("SELECT * FROM items WHERE UpdatedAt > '2019-02-16 20:52:55'")
	require.NoError(t, err)

	assert.Equal(t, []string{}, sc.SelectedFields)
	assert.Equal(t, q.Gt("UpdatedAt", time.Date(2019, 2, 16, 20, 52, 55, 0, time.UTC)), sc.Matcher)
}

func TestParseSelect_Converter(t *testing.T) {
	levels := map[string]int{"severe": 0, "high": 1}
	convert := func(table, field string, value any) (any, error) {
		if table != "items" || field != "Priority" {
			return value, nil
		}
		if s, ok := value.(string); ok {
			if level, ok := levels[s]; ok {
				return level, nil
			}
			return nil, errors.Errorf("unknown priority %s", s)
		}
		return value, nil
	}

	sc, err := stormsql.ParseSelect("SELECT * FROM items WHERE Priority IN ('severe', 'high') OR Priority = 3", convert)
	require.NoError(t, err)
	assert.Equal(t, q.Or(q.In("Priority", []any{0, 1}), q.Eq("Priority", 3)), sc.Matcher)

	_, err = stormsql.ParseSelect("SELECT * FROM items WHERE Priority = 'urgent'", convert)
	assert.EqualError(t, err, "unknown priority urgent")
}

func TestParseSelect_Errors(t *testing.T) {
	for _, sql := range []string{
		"DELETE FROM items",
		"SELECT max(Priority) FROM items",
		"SELECT * FROM items WHERE Summary REGEXP 'milk'",
		"SELECT * FROM items WHERE 1 = Priority",
		"SELECT * FROM items LIMIT 'a'",
		"SELEC * FROM items",
	} {
		_, err := stormsql.ParseSelect(sql)
		assert.Error(t, err, sql)
	}
}
