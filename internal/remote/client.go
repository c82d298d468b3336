package remote

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
)

// Send delivers one command to a running listener at addr and returns the
// server's reply without its trailing newline.
func Send(ctx context.Context, addr, text string) (string, error) {
	if strings.ContainsAny(text, "\r\n") {
		text = strings.Join(strings.Fields(text), " ")
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte(text + "\n")); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read reply: %w", err)
	}
	return strings.TrimRight(reply, "\r\n"), nil
}
