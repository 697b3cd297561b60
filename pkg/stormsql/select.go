package stormsql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/asdine/storm/v3/q"
	"github.com/pkg/errors"
	"github.com/xwb1989/sqlparser"
)

type (
	// A SelectClause contains all the parsed SQL data.
	SelectClause struct {
		SelectedFields  []string
		Count           bool
		Tablename       string
		Matcher         q.Matcher
		Skip            int
		Limit           int
		OrderBy         []string
		OrderByReversed bool
	}

	// A Converter converts the value compared to the given field in WHERE expressions.
	// It allows to query fields stored with a type that has no SQL literal (e.g. enums).
	Converter func(table, field string, value any) (any, error)

	parser struct {
		table   string
		convert Converter
	}
)

// ParseSelect parses the given SELECT statement.
// Values of the WHERE expressions are converted with the given converters.
func ParseSelect(sql string, converters ...Converter) (*SelectClause, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse SQL")
	}

	s, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, errors.New("not a select statement")
	}

	var sc SelectClause

	// SELECT * ...
	// SELECT OwnerID,UpdatedAt ...
	for _, se := range s.SelectExprs {
		switch v := se.(type) {
		case *sqlparser.StarExpr:
			sc.SelectedFields = []string{}
		case *sqlparser.AliasedExpr:
			switch v := v.Expr.(type) {
			case *sqlparser.ColName:
				sc.SelectedFields = append(sc.SelectedFields, v.Name.String())
			case *sqlparser.FuncExpr:
				if !v.Name.EqualString("count") {
					return nil, errors.Errorf("unsupported function: %s", v.Name.String())
				}
				sc.SelectedFields = []string{}
				sc.Count = true
			default:
				return nil, errors.New("unsupported select expression")
			}
		default:
			return nil, errors.New("unsupported select expression")
		}
	}

	// FROM users
	if len(s.From) != 1 {
		return nil, errors.New("only one table can be queried")
	}
	table, ok := s.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, errors.New("unsupported table expression")
	}
	sc.Tablename = sqlparser.GetTableName(table.Expr).String()

	p := parser{
		table: sc.Tablename,
		convert: func(table, field string, value any) (any, error) {
			var err error
			for _, convert := range converters {
				if value, err = convert(table, field, value); err != nil {
					return nil, err
				}
			}
			return value, nil
		},
	}

	// WHERE
	sc.Matcher = q.And()
	if s.Where != nil {
		if sc.Matcher, err = p.parseWhereExpr(s.Where.Expr); err != nil {
			return nil, err
		}
	}

	// LIMIT 5
	// LIMIT 2,5
	if s.Limit != nil {
		if s.Limit.Offset != nil {
			if sc.Skip, err = parseInt(s.Limit.Offset); err != nil {
				return nil, errors.Wrap(err, "offset")
			}
		}
		if sc.Limit, err = parseInt(s.Limit.Rowcount); err != nil {
			return nil, errors.Wrap(err, "limit")
		}
	}

	// ORDER BY UpdatedAt
	// ORDER BY UpdatedAt DESC
	// ORDER BY Priority DESC, CreatedAt ASC     => All will be DESC due to strom limitation
	for _, ob := range s.OrderBy {
		col, ok := ob.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("unsupported order by expression")
		}

		if ob.Direction == sqlparser.DescScr {
			sc.OrderByReversed = true
		}
		sc.OrderBy = append(sc.OrderBy, col.Name.String())
	}

	return &sc, nil
}

func (p parser) parseWhereExpr(expr sqlparser.Expr) (q.Matcher, error) {
	switch v := expr.(type) {
	//
	//
	//
	case *sqlparser.ComparisonExpr:
		col, ok := v.Left.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("left side of a comparison must be a field")
		}
		field := col.Name.String()

		// Parse value
		var value any
		switch sqlvalue := v.Right.(type) {
		case sqlparser.BoolVal:
			value = bool(sqlvalue)
		case sqlparser.ValTuple:
			var tuple []any
			for _, t := range sqlvalue {
				val, err := p.value(field, t)
				if err != nil {
					return nil, err
				}
				tuple = append(tuple, val)
			}
			value = tuple
		default:
			val, err := p.value(field, sqlvalue)
			if err != nil {
				return nil, err
			}
			value = val
		}

		// Parse operator
		switch v.Operator {
		case sqlparser.EqualStr:
			return q.Eq(field, value), nil
		case sqlparser.NotEqualStr:
			return q.Not(q.Eq(field, value)), nil
		case sqlparser.GreaterThanStr:
			return q.Gt(field, value), nil
		case sqlparser.GreaterEqualStr:
			return q.Gte(field, value), nil
		case sqlparser.InStr:
			return q.In(field, value), nil
		case sqlparser.NotInStr:
			return q.Not(q.In(field, value)), nil
		case sqlparser.LessThanStr:
			return q.Lt(field, value), nil
		case sqlparser.LessEqualStr:
			return q.Lte(field, value), nil
		case sqlparser.LikeStr:
			return q.Re(field, fmt.Sprintf("%v", value)), nil
		default:
			return nil, errors.Errorf("unsupported operator: %s", v.Operator)
		}
		//
		//
		//
	case *sqlparser.IsExpr:
		col, ok := v.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("left side of IS must be a field")
		}

		switch v.Operator {
		case sqlparser.IsNullStr:
			return q.Eq(col.Name.String(), nil), nil
		case sqlparser.IsNotNullStr:
			return q.Not(q.Eq(col.Name.String(), nil)), nil
		case sqlparser.IsTrueStr:
			return q.Eq(col.Name.String(), true), nil
		case sqlparser.IsFalseStr:
			return q.Eq(col.Name.String(), false), nil
		default:
			return nil, errors.Errorf("unsupported operator: %s", v.Operator)
		}
		//
		//
		//
	case *sqlparser.AndExpr:
		left, err := p.parseWhereExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := p.parseWhereExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return q.And(left, right), nil
		//
		//
		//
	case *sqlparser.OrExpr:
		left, err := p.parseWhereExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := p.parseWhereExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return q.Or(left, right), nil
		//
		//
		//
	case *sqlparser.NotExpr:
		m, err := p.parseWhereExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return q.Not(m), nil
		//
		//
		//
	case *sqlparser.ParenExpr:
		return p.parseWhereExpr(v.Expr)
	default:
		return nil, errors.Errorf("unsupported where expression: %s", sqlparser.String(expr))
	}
}

func (p parser) value(field string, expr sqlparser.Expr) (any, error) {
	var value any

	switch v := expr.(type) {
	case sqlparser.BoolVal:
		value = bool(v)
	case *sqlparser.NullVal:
		value = nil
	case *sqlparser.SQLVal:
		var err error
		if value, err = parseSQLVal(v); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unsupported value: %s", sqlparser.String(expr))
	}

	return p.convert(p.table, field, value)
}

func parseInt(expr sqlparser.Expr) (int, error) {
	v, ok := expr.(*sqlparser.SQLVal)
	if !ok || v.Type != sqlparser.IntVal {
		return 0, errors.New("integer expected")
	}
	return strconv.Atoi(string(v.Val))
}

func parseSQLVal(v *sqlparser.SQLVal) (value any, err error) {
	switch v.Type {
	case sqlparser.StrVal:
		value = string(v.Val)

		// Try to convert to time.Time if possible, dates without zone are UTC.
		if t, err := dateparse.ParseIn(string(v.Val), time.UTC); err == nil {
			value = t.UTC()
		}
	case sqlparser.IntVal:
		value, err = strconv.Atoi(string(v.Val))
	case sqlparser.FloatVal:
		value, err = strconv.ParseFloat(string(v.Val), 64)
	case sqlparser.HexNum:
		value, err = strconv.ParseInt(strings.TrimPrefix(strings.ToLower(string(v.Val)), "0x"), 16, 64)
	case sqlparser.HexVal:
		value, err = v.HexDecode()
	case sqlparser.BitVal:
		value = len(v.Val) > 0 && v.Val[0] == '1'
	default:
		return nil, errors.Errorf("unsupported value: %s", sqlparser.String(v))
	}

	return value, errors.Wrap(err, "could not parse value")
}
