package main

import (
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/mech3"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newMech3(c *cli.Context) *mech3.Mech3 {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return mech3.New(logger)
}

func main() {
	app := cli.NewApp()

	app.Name = "mech3"
	app.Usage = "MechWarrior 3 asset conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "textures",
			Usage:       "Extract texture archives to PNG images",
			Description: "Walk DIRECTORY for .zbd texture archives and extract each one to a directory of PNG images and a manifest under OUTPUT",
			ArgsUsage:   "DIRECTORY OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := newMech3(c).Extract(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "rebuild",
			Usage:       "Rebuild a texture archive from extracted PNG images",
			Description: "Re-encode the PNG images and manifest in DIRECTORY to the texture archive FILE",
			ArgsUsage:   "DIRECTORY FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := newMech3(c).Rebuild(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
