package main

import "github.com/apache/activemq-openwire-sub001/cmd"

func main() {
	cmd.Execute()
}
