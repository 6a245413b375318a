// Command disksim is the thin external driver for the simulated filesystem:
// it reads a stream of commands from a file, one per line, and dispatches
// each to the disko package's operation surface. Command-file grammar and
// CLI argument handling are deliberately kept out of the core package (see
// section 1 of the specification this implements); this file is the one
// place they live.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/longfeiCA/lab3"
)

func main() {
	out := log.New(os.Stdout, "", 0)

	app := &cli.App{
		Name:      "disksim",
		Usage:     "Run a command file against a simulated block file system image",
		ArgsUsage: "COMMAND_FILE",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("expected exactly one argument: COMMAND_FILE", 1)
			}
			return runCommandFile(c.Args().First(), out)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func runCommandFile(path string, out *log.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dispatch(strings.Fields(line), out)
	}
	return scanner.Err()
}

func dispatch(fields []string, out *log.Logger) {
	if len(fields) == 0 {
		return
	}

	cmd, args := fields[0], fields[1:]
	var err error

	switch cmd {
	case "mount":
		err = requireArgs(args, 1, func() error { return disko.Mount(args[0]) })
	case "create":
		err = requireArgs(args, 2, func() error {
			size, perr := strconv.Atoi(args[1])
			if perr != nil {
				return perr
			}
			return disko.Create(disko.ToName(args[0]), size)
		})
	case "delete":
		err = requireArgs(args, 1, func() error { return disko.Delete(disko.ToName(args[0])) })
	case "read":
		err = requireArgs(args, 2, func() error {
			block, perr := strconv.Atoi(args[1])
			if perr != nil {
				return perr
			}
			return disko.Read(disko.ToName(args[0]), block)
		})
	case "write":
		err = requireArgs(args, 2, func() error {
			block, perr := strconv.Atoi(args[1])
			if perr != nil {
				return perr
			}
			return disko.Write(disko.ToName(args[0]), block)
		})
	case "buff":
		err = requireArgs(args, 1, func() error {
			return disko.Buff([]byte(strings.Join(args, " ")))
		})
	case "resize":
		err = requireArgs(args, 2, func() error {
			size, perr := strconv.Atoi(args[1])
			if perr != nil {
				return perr
			}
			return disko.Resize(disko.ToName(args[0]), size)
		})
	case "defrag":
		err = disko.Defragment()
	case "cd":
		err = requireArgs(args, 1, func() error { return disko.Cd(disko.ToName(args[0])) })
	case "ls":
		err = doLs(out)
	default:
		out.Printf("unrecognized command: %s", cmd)
		return
	}

	if err != nil {
		out.Println(err.Error())
	}
}

func requireArgs(args []string, n int, action func() error) error {
	if len(args) < n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", args, n, len(args))
	}
	return action()
}

func doLs(out *log.Logger) error {
	entries, err := disko.Ls()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		out.Println(entry.String())
	}
	return nil
}
