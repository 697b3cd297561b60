package main

import (
	"encoding/json"
	"fmt"
	"log"
	"reflect"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/itemlist/internal/database"
	"github.com/mdouchement/itemlist/internal/model"
	"github.com/mdouchement/itemlist/pkg/stormsql"
	"github.com/mdouchement/itemlist/pkg/structs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go itemlist.db " SELECT Summary, Priority FROM items WHERE OwnerID = 'f2a98ab0-2c40-42b4-be08-da3b771be935' AND Priority <= 'high' AND UpdatedAt > '2019-02-16 20:52:55';  "

func main() {
	var codec string

	c := &cobra.Command{
		Use:   "console DATABASE QUERY",
		Short: "SQL console for itemlist database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1], priority)
			if err != nil {
				return err
			}

			//
			//
			fmt.Println("Opening", args[0])
			db, err := database.StormRaw(args[0], database.WithCodec(codec))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				return count(sc, query)
			}

			return list(sc, query)
		},
	}
	c.Flags().StringVarP(&codec, "codec", "", "", "Database codec (msgpack, cbor, binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

// priority allows to query item priorities by name.
func priority(table, field string, value any) (any, error) {
	if table != "items" || field != "Priority" {
		return value, nil
	}

	switch v := value.(type) {
	case string:
		return model.ParsePriority(v)
	case int:
		return model.Priority(v), nil
	}
	return value, nil
}

func count(sc *stormsql.SelectClause, query storm.Query) error {
	var records any
	switch sc.Tablename {
	case "users":
		records = &model.User{}
	case "items":
		records = &model.Item{}
	default:
		return errors.Errorf("unknown tablename: %s", sc.Tablename)
	}

	n, err := query.Count(records)

	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Println("Count:", n)

	return nil
}

func list(sc *stormsql.SelectClause, query storm.Query) error {
	var records any
	switch sc.Tablename {
	case "users":
		records = &[]*model.User{}
	case "items":
		records = &[]*model.Item{}
	default:
		return errors.Errorf("unknown tablename: %s", sc.Tablename)
	}

	err := query.Find(records)
	if err == storm.ErrNotFound {
		fmt.Println("[]")
		return nil
	}

	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	if len(sc.SelectedFields) == 0 {
		jsondump(records)
		return nil
	}

	// Projection of the selected fields
	rv := reflect.ValueOf(records).Elem()
	projections := make([]map[string]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		projection, err := structs.Project(rv.Index(i).Interface(), sc.SelectedFields...)
		if err != nil {
			return err
		}
		projections = append(projections, projection)
	}

	jsondump(projections)

	return nil
}

func jsondump(v any) {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(d))
}
