package person

import (
	"context"
	"hash/fnv"
)

var (
	mockFirstNames = []string{"Anna", "Thomas", "Maria", "Michael", "Katharina", "Stefan", "Elisabeth", "Andreas", "Sabine", "Christian"}
	mockLastNames  = []string{"Gruber", "Huber", "Bauer", "Wagner", "Müller", "Pichler", "Steiner", "Moser", "Mayer", "Hofer", "Leitner", "Berger"}
	mockTitles     = []string{"", "", "Mag.", "Dr.", ""}
)

const sourceMock = "mock"

// MockFinder invents a stable decision maker per company for offline runs.
type MockFinder struct{}

// Find derives the name from a hash of the company so repeated runs agree.
func (MockFinder) Find(_ context.Context, company, location string) (Result, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(company + "|" + location))
	sum := h.Sum32()

	name := mockFirstNames[sum%uint32(len(mockFirstNames))] + " " + mockLastNames[(sum/7)%uint32(len(mockLastNames))]
	source := sourceMock
	res := Result{Name: &name, Source: &source, Evidence: "synthetic person for " + company}
	if title := mockTitles[(sum/13)%uint32(len(mockTitles))]; title != "" {
		res.Title = &title
	}
	return res, nil
}

// NoFinder reports no decision maker for every company.
type NoFinder struct{}

// Find always returns an empty result.
func (NoFinder) Find(context.Context, string, string) (Result, error) {
	return Result{}, nil
}
