package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ecolife",
		Usage: "EcoLife eco-products inventory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "product table backend: sqlite, mysql, redis or memory"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database file"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "console or json"},
		},
		Action: shell,
		Commands: []*cli.Command{
			{
				Name:   "shell",
				Usage:  "interactive administration menu",
				Action: shell,
			},
			{
				Name:  "serve",
				Usage: "serve the HTTP API and the EcoLife pages",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address"},
				},
				Action: serve,
			},
			{
				Name:      "add",
				Usage:     "add a product",
				ArgsUsage: "ID NAME QUANTITY PRICE",
				Action:    add,
			},
			{
				Name:      "remove",
				Usage:     "remove a product by id",
				ArgsUsage: "ID",
				Action:    remove,
			},
			{
				Name:      "update",
				Usage:     "change quantity and/or price",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "quantity", Usage: "new quantity"},
					&cli.StringFlag{Name: "price", Usage: "new unit price"},
				},
				Action: update,
			},
			{
				Name:      "search",
				Usage:     "find products whose name contains TEXT",
				ArgsUsage: "TEXT",
				Action:    search,
			},
			{
				Name:   "list",
				Usage:  "show every product",
				Action: list,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("ecolife stopped with error")
	}
}
