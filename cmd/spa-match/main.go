package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "spa-match",
		Usage: "Allocate students to supervised capstone topics",
		Commands: []*cli.Command{
			runCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

var runCmd = &cli.Command{
	Name:    "run",
	Usage:   "Run one matching session",
	Aliases: []string{"r"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "students",
			Required: true,
			Usage:    "specify the input students.txt",
		},
		&cli.StringFlag{
			Name:     "topics",
			Required: true,
			Usage:    "specify the input topics.txt",
		},
		&cli.StringFlag{
			Name:     "supervisors",
			Required: true,
			Usage:    "specify the input supervisors.txt",
		},
		&cli.StringFlag{
			Name:     "out",
			Required: true,
			Usage:    "specify the output report.json",
		},
		&cli.StringFlag{
			Name:     "config",
			Required: false,
			Usage:    "specify the program-inference config.yaml",
		},
		&cli.BoolFlag{
			Name:     "strict",
			Required: false,
			Usage:    "require exactly 5 preferences per student",
		},
		&cli.BoolFlag{
			Name:     "verbose",
			Required: false,
			Usage:    "log per-round progress",
		},
	},
	Action: func(ctx *cli.Context) error {
		var (
			studentFile    = ctx.String("students")
			topicFile      = ctx.String("topics")
			supervisorFile = ctx.String("supervisors")
			outFile        = ctx.String("out")
			configFile     = ctx.String("config")
			strict         = ctx.Bool("strict")
			verbose        = ctx.Bool("verbose")
		)
		return doRun(ctx.Context, studentFile, topicFile, supervisorFile, outFile, configFile, strict, verbose)
	},
}
