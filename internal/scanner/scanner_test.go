package scanner_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/scanner"
)

var generatedDir = filepath.Join("..", "..", "testdata", "generated")

func bases(files []string) []string {
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	return names
}

var _ = Describe("Scanner", func() {
	var s *scanner.FileScanner

	BeforeEach(func() {
		s = scanner.NewScanner(true)
	})

	It("should find markdown outputs recursively in sorted order", func() {
		files, err := s.Scan(generatedDir, []string{"*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(bases(files)).To(Equal([]string{"JIRA-101.md", "JIRA-090.md"}))
	})

	It("should respect exclude patterns", func() {
		files, err := s.Scan(generatedDir, []string{"*.md", "*.txt"}, []string{"*-test-cases.*"})
		Expect(err).ToNot(HaveOccurred())
		Expect(bases(files)).To(ConsistOf("JIRA-101.md", "JIRA-090.md", "empty.txt"))
	})

	It("should skip excluded directories", func() {
		files, err := s.Scan(generatedDir, []string{"*.md"}, []string{"archive/**"})
		Expect(err).ToNot(HaveOccurred())
		Expect(bases(files)).To(Equal([]string{"JIRA-101.md"}))
	})

	It("should handle non-recursive mode", func() {
		s = scanner.NewScanner(false)
		files, err := s.Scan(generatedDir, []string{"*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(bases(files)).To(Equal([]string{"JIRA-101.md"}))
	})

	It("should return a scan error for a nonexistent directory", func() {
		_, err := s.Scan("nonexistent_dir", []string{"*.md"}, nil)
		Expect(err).To(HaveOccurred())
		var scErr *domain.StoryCasesError
		Expect(err).To(BeAssignableToTypeOf(scErr))
		Expect(err.Error()).To(ContainSubstring("scan"))
	})

	Describe("ScanAll", func() {
		It("should not return the same file twice", func() {
			files, err := s.ScanAll([]string{generatedDir, filepath.Join(generatedDir, "archive")}, []string{"*.md"}, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(bases(files)).To(Equal([]string{"JIRA-101.md", "JIRA-090.md"}))
		})

		It("should fail when any directory is missing", func() {
			_, err := s.ScanAll([]string{generatedDir, "nonexistent_dir"}, []string{"*.md"}, nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
