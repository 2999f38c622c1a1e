package main

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"

	"minesweeper/internal/minesweeper/protocol"
)

// A terminal client for the minesweeper server. It displays everything the
// server sends, acknowledges plain prints and forwards a line of input
// whenever a prompt arrives.
func main() {
	addr := "localhost:12345"
	switch len(os.Args) {
	case 1:
	case 3:
		addr = net.JoinHostPort(os.Args[1], os.Args[2])
	default:
		log.Fatalf("usage: %s [server_hostname port_number]", os.Args[0])
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", addr, err)
	}
	defer conn.Close()

	ch := protocol.NewChannel(conn)
	stdin := bufio.NewScanner(os.Stdin)

	for {
		code, payload, err := ch.Receive()
		if err != nil {
			log.Fatalf("connection lost: %v", err)
		}

		switch code {
		case protocol.CodePrint:
			fmt.Println(payload)
			ch.Send(protocol.CodeAck, "")
		case protocol.CodeInput:
			fmt.Print(payload)
			if !stdin.Scan() {
				ch.Send(protocol.CodeExit, "")
				return
			}
			if err := ch.Send(protocol.CodeInput, stdin.Text()); err != nil {
				log.Fatalf("connection lost: %v", err)
			}
		case protocol.CodePrintInput:
			fmt.Print(payload)
			if !stdin.Scan() {
				ch.Send(protocol.CodeExit, "")
				return
			}
			// Raw reply, no code prefix.
			if _, err := fmt.Fprintf(conn, "%s\n", stdin.Text()); err != nil {
				log.Fatalf("connection lost: %v", err)
			}
		case protocol.CodeExit:
			if payload != "" {
				fmt.Println(payload)
			}
			return
		}
	}
}
