package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/string-art-mcp/internal/config"
	"github.com/ironsheep/string-art-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("string-art-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("string-art-mcp - MCP server for nail-and-string art")
			fmt.Println()
			fmt.Println("Usage: string-art-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug    Enable debug logging\n", config.LogLevelEnvVar)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if Version != "dev" {
		server.Version = Version
	}

	srv := server.New()
	if config.DebugEnabled() {
		log.Printf("String Art MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		srv = server.NewWithLogger(log.New(os.Stderr, "engine: ", log.Ldate|log.Ltime))
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
