// Package main edits the permission fields of the commands file and checks
// it for unreachable commands.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/totorewa/folderbot/internal/commandtree"
	"github.com/totorewa/folderbot/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; supplies the commands path")
	commandsPath := flag.String("commands", "", "commands file (overrides the configured path)")
	addAdmin := flag.String("add-admin", "", "username to add to the admin list")
	removeAdmin := flag.String("remove-admin", "", "username to remove from the admin list")
	superuser := flag.String("superuser", "", "username to make superuser")
	lint := flag.Bool("lint", false, "report unreachable commands and exit non-zero if any")
	flag.Parse()

	if *addAdmin == "" && *removeAdmin == "" && *superuser == "" && !*lint {
		flag.Usage()
		os.Exit(1)
	}

	path := *commandsPath
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		path = cfg.Bot.CommandsPath
	}

	tree, err := commandtree.FromFile(path)
	if err != nil {
		log.Fatalf("loading commands: %v", err)
	}

	changed := false
	if user := strings.ToLower(*addAdmin); user != "" {
		if tree.AddAdmin(user) {
			changed = true
			fmt.Printf("added admin %s\n", user)
		} else {
			fmt.Printf("%s is already an admin\n", user)
		}
	}
	if user := strings.ToLower(*removeAdmin); user != "" {
		if tree.RemoveAdmin(user) {
			changed = true
			fmt.Printf("removed admin %s\n", user)
		} else {
			fmt.Printf("%s is not an admin\n", user)
		}
	}
	if user := strings.ToLower(*superuser); user != "" && user != tree.Superuser() {
		fmt.Printf("superuser %s -> %s\n", tree.Superuser(), user)
		tree.SetSuperuser(user)
		changed = true
	}

	if changed {
		if err := tree.DumpFile(path); err != nil {
			log.Fatalf("saving commands: %v", err)
		}
	}

	if *lint {
		problems := tree.Lint()
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, p)
		}
		fmt.Printf("%d commands, %d problems [%s]\n", tree.Len(), len(problems), time.Since(start))
		if len(problems) > 0 {
			os.Exit(2)
		}
		return
	}
	fmt.Printf("done [%s]\n", time.Since(start))
}
