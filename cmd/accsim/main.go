package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/ezrec/accsim/console"
	"github.com/ezrec/accsim/emulator"
	"github.com/ezrec/accsim/translate"
)

func main() {
	var program string
	var input string
	var output string
	var lang string
	var verbose bool

	flag.StringVar(&program, "l", "", "program image to load before the first command")
	flag.StringVar(&input, "i", "-", "Command input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47), default from the host locale")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	var ouf io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer file.Close()
		ouf = file
	}

	var reader console.LineReader
	if input == "-" {
		if output == "-" && console.IsTerminal(os.Stdin) {
			reader = console.NewTermReader(os.Stdin, os.Stdout)
		} else {
			reader = console.NewScanReader(os.Stdin, ouf)
		}
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		reader = console.NewScanReader(inf, ouf)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	con := console.NewConsole(emu, reader, ouf)
	con.Verbose = verbose

	if len(program) != 0 {
		_, err := emu.Load(program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	}

	err := con.Run()
	if err != nil {
		log.Fatal(err)
	}
}
