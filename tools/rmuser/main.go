package main

import (
	"fmt"
	"log"

	"github.com/mdouchement/itemlist/internal/database"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

func main() {
	var codec string

	c := &coral.Command{
		Use:   "rmuser DATABASE EMAIL",
		Short: "Remove a user and all the items they own from the database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			//
			//
			fmt.Println("Opening", args[0])
			db, err := database.StormOpen(args[0], database.WithCodec(codec))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			// Fetch user
			user, err := db.FindUserByMail(args[1])
			if err != nil {
				if db.IsNotFound(err) {
					fmt.Println("No account for this email")
					return nil
				}
				return errors.Wrap(err, "find user by mail")
			}

			fmt.Println("User found:", user.ID)

			// Deleting user's items
			n, err := db.DeleteItemsByOwner(user.ID)
			if err != nil {
				return errors.Wrap(err, "delete items")
			}
			fmt.Println(n, "items removed")

			// Delete user
			err = db.Delete(user)
			if err != nil && !db.IsNotFound(err) {
				return errors.Wrap(err, "delete user")
			}
			fmt.Println("User removed")

			return nil
		},
	}
	c.Flags().StringVarP(&codec, "codec", "", "", "Database codec (msgpack, cbor, binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
