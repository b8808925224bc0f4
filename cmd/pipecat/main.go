// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command pipecat runs lines of standard input through a codec stack.
//
// By default every line is sent as one payload and every wire unit the
// stack produces is printed in hex, one per line. With -decode every line
// is read as a hex wire unit and every payload received is printed.
// Error items are logged to standard error and do not stop the run.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/pipe"
	"code.hybscloud.com/pipe/internal/codec"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pipecat: %v\n", err)
		os.Exit(1)
	}
}

type buffer = pipe.Buffer[*codec.Session, []byte]

func run(args []string, in io.Reader, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("pipecat", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "path to a TOML config file")
	decode := fs.Bool("decode", false, "read hex wire units and print the payloads received")
	layers := fs.String("layers", "", "comma-separated layer names, topmost first ("+strings.Join(codec.Names, ", ")+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	applyEnvOverrides(&cfg)
	if *layers != "" {
		cfg.Layers = normalizeLayers(strings.Split(*layers, ","))
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger := newLogger(errOut, cfg)
	buf := pipe.NewBuffer[*codec.Session, []byte]()
	stack, err := codec.Build(cfg.Layers, pipe.Bottom[*buffer, *codec.Session, []byte, []byte](buf), codec.Options{ChunkSize: cfg.ChunkSize})
	if err != nil {
		return err
	}
	p := pipe.New(stack, codec.NewSession(), pipe.WithLogger(logger))
	logger.Debug().Strs("layers", cfg.Layers).Bool("decode", *decode).Msg("pipeline ready")

	w := bufio.NewWriter(out)
	defer w.Flush()

	sc := bufio.NewScanner(in)
	for line := 1; sc.Scan(); line++ {
		if *decode {
			unit, err := hex.DecodeString(strings.TrimSpace(sc.Text()))
			if err != nil {
				logger.Warn().Int("line", line).Err(err).Msg("skip malformed wire unit")
				continue
			}
			for it := range p.Receive(unit).All() {
				payload, err := pipe.Unpack(it)
				if err != nil {
					logger.Error().Int("line", line).Err(err).Msg("receive")
					continue
				}
				w.Write(payload)
				w.WriteByte('\n')
			}
			continue
		}

		for it := range p.Send(bytes.Clone(sc.Bytes())).All() {
			unit, err := pipe.Unpack(it)
			if err != nil {
				logger.Error().Int("line", line).Err(err).Msg("send")
				continue
			}
			w.WriteString(hex.EncodeToString(unit))
			w.WriteByte('\n')
		}
		buf.Reset()
	}
	return sc.Err()
}

func newLogger(w io.Writer, cfg config) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(cfg.LogLevel).With().Timestamp().Str("app", "pipecat").Logger()
}
