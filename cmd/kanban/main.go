package main

import "github.com/kanban-board/backend/cmd/kanban/cmd"

func main() {
	cmd.Execute()
}
