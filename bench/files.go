package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func changesetDataFilename(dataDir string, version int64) string {
	return filepath.Join(dataDir, fmt.Sprintf("%09d.jsonl", version))
}

func changesetInfoFilename(dataDir string) string {
	return filepath.Join(dataDir, "changeset_info.json")
}

type changesetInfo struct {
	Versions  int64              `json:"versions"`
	Generator ChangesetGenerator `json:"generator"`
}

func writeChangesetInfo(dataDir string, info changesetInfo) error {
	bz, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("error marshaling info file: %w", err)
	}
	return os.WriteFile(changesetInfoFilename(dataDir), bz, 0o644)
}

func readChangesetInfo(dataDir string) (changesetInfo, error) {
	bz, err := os.ReadFile(changesetInfoFilename(dataDir))
	if err != nil {
		return changesetInfo{}, fmt.Errorf("error reading info file: %w", err)
	}
	var info changesetInfo
	if err := json.Unmarshal(bz, &info); err != nil {
		return changesetInfo{}, fmt.Errorf("error unmarshaling info file: %w", err)
	}
	return info, nil
}

// WriteChangesets drains a generated changeset into dataDir, one
// JSON-lines file per version plus a changeset_info.json describing
// the workload.
func WriteChangesets(gen ChangesetGenerator, dataDir string) error {
	itr, err := gen.Iterator()
	if err != nil {
		return err
	}

	var (
		f       *os.File
		w       *bufio.Writer
		enc     *json.Encoder
		version int64
	)
	closeFile := func() error {
		if f == nil {
			return nil
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return f.Close()
	}

	for ; itr.Valid(); err = itr.Next() {
		if err != nil {
			return err
		}
		if itr.Version != version {
			if err := closeFile(); err != nil {
				return fmt.Errorf("error closing changeset file for version %d: %w", version, err)
			}
			version = itr.Version
			f, err = os.Create(changesetDataFilename(dataDir, version))
			if err != nil {
				return fmt.Errorf("error creating changeset file for version %d: %w", version, err)
			}
			w = bufio.NewWriter(f)
			enc = json.NewEncoder(w)
		}
		if err := enc.Encode(itr.Op); err != nil {
			return fmt.Errorf("error writing op at version %d: %w", version, err)
		}
	}
	if err := closeFile(); err != nil {
		return fmt.Errorf("error closing changeset file for version %d: %w", version, err)
	}

	return writeChangesetInfo(dataDir, changesetInfo{Versions: gen.Versions, Generator: gen})
}

// readVersionOps reads the ops of a single version's file.
func readVersionOps(dataDir string, version int64) ([]Op, error) {
	f, err := os.Open(changesetDataFilename(dataDir, version))
	if err != nil {
		return nil, fmt.Errorf("error opening changeset file for version %d: %w", version, err)
	}
	defer f.Close()

	var ops []Op
	scanner := bufio.NewScanner(f)
	scanner.Buffer(nil, 1<<20)
	for scanner.Scan() {
		var op Op
		if err := json.Unmarshal(scanner.Bytes(), &op); err != nil {
			return nil, fmt.Errorf("error at entry %d reading changeset: %w", len(ops), err)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning changeset file for version %d: %w", version, err)
	}
	return ops, nil
}
