// Command agromart runs the AgroMart catalog server and a terminal
// storefront that talks to it.
//
//	agromart serve              # start the API server
//	agromart route:list
//	agromart migrate            # STORE_DRIVER=database only
//	agromart seed               # load the demo catalog into an empty store
//	agromart sheets:init        # create the Products/Categories/Settings tabs
//	agromart export backup.json
//	agromart import backup.json
//
// Storefront commands read the catalog from API_BASE_URL and keep the cart
// in CLIENT_KV (disk under CLIENT_STATE_DIR by default):
//
//	agromart catalog --category fertilizer
//	agromart cart add 1 --variant 2
//	agromart cart show
//	agromart order
package main
