package conformance

import (
	"fmt"
	"net"
)

// Client drives a conformance server over one connection.
type Client struct {
	conn net.Conn
}

func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) roundTrip(req any) (any, error) {
	if err := writeMessage(c.conn, req); err != nil {
		return nil, err
	}
	data, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}
	resp, err := DecodeMessage(data)
	if err != nil {
		return nil, err
	}
	if e, ok := resp.(*Error); ok {
		return nil, fmt.Errorf("server: %s", e.Message)
	}
	return resp, nil
}

func (c *Client) Hello(name, version string) (*Hello, error) {
	resp, err := c.roundTrip(&Hello{Name: name, Version: version})
	if err != nil {
		return nil, err
	}
	h, ok := resp.(*Hello)
	if !ok {
		return nil, fmt.Errorf("unexpected %T reply to hello", resp)
	}
	return h, nil
}

func (c *Client) Load(req *Load) (*Loaded, error) {
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	l, ok := resp.(*Loaded)
	if !ok {
		return nil, fmt.Errorf("unexpected %T reply to load", resp)
	}
	return l, nil
}

func (c *Client) Run(req *Run) (*Result, error) {
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	r, ok := resp.(*Result)
	if !ok {
		return nil, fmt.Errorf("unexpected %T reply to run", resp)
	}
	return r, nil
}
