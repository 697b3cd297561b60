//
// libil is a client that interacts with the itemlist API.
//

// Create client
//
//	client, err := libil.NewDefaultClient("https://items.nas.lan")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Authenticate
//
//	err = client.Login("george.abitbol@nas.lan", "12345678")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Create an item
//
//	item, err := client.CreateItem("Buy milk", "high")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// List items
//
//	items, err := client.ListItems(libil.ListOptions{Scope: libil.ScopeAll})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, item := range items {
//		fmt.Printf("[%s] %s\n", item.Priority, item.Summary)
//	}
//
// Watch the list
//
//	err = client.Watch(ctx, libil.ListOptions{}, func(items []libil.Item) error {
//		fmt.Println(len(items), "items")
//		return nil
//	})
//	if err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal(err)
//	}
package libil
