package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Belphemur/SeriesDumpster/internal/models"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestLinkStore(t *testing.T) {
	Convey("Given a link store on an in-memory filesystem", t, func() {
		memFs := afero.NewMemMapFs()
		s := NewLinkStore(memFs, "backpack", models.LayoutFlat)

		Convey("SeasonFile follows the flat layout", func() {
			So(s.SeasonFile("Foo", 1), ShouldEqual, filepath.Join("backpack", "Foo_season1.txt"))
			So(s.SeasonFile("Foo Bar", 12), ShouldEqual, filepath.Join("backpack", "Foo Bar_season12.txt"))
		})

		Convey("SeasonFile follows the nested layout", func() {
			nested := NewLinkStore(memFs, "backpack", models.LayoutNested)
			So(nested.SeasonFile("Foo", 2), ShouldEqual, filepath.Join("backpack", "Foo", "season2.txt"))
		})

		Convey("Loading a missing file yields an empty set", func() {
			links, err := s.Load(s.SeasonFile("Foo", 1))
			So(err, ShouldBeNil)
			So(links, ShouldBeEmpty)
		})

		Convey("Appending creates the file with one link per line", func() {
			path := s.SeasonFile("Foo", 1)
			So(s.Append(path, []string{"https://s.to/redirect/1", "https://s.to/redirect/2"}), ShouldBeNil)

			content, err := afero.ReadFile(memFs, path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "https://s.to/redirect/1\nhttps://s.to/redirect/2\n")

			Convey("and a second append keeps the earlier lines", func() {
				So(s.Append(path, []string{"https://s.to/redirect/3"}), ShouldBeNil)

				content, err := afero.ReadFile(memFs, path)
				So(err, ShouldBeNil)
				So(strings.Count(string(content), "\n"), ShouldEqual, 3)
				So(string(content), ShouldStartWith, "https://s.to/redirect/1\n")
			})

			Convey("and Load returns the saved links", func() {
				links, err := s.Load(path)
				So(err, ShouldBeNil)
				So(links, ShouldHaveLength, 2)
				So(links, ShouldContainKey, "https://s.to/redirect/2")
			})
		})

		Convey("Load trims whitespace and skips blank lines", func() {
			path := filepath.Join("backpack", "manual.txt")
			So(afero.WriteFile(memFs, path, []byte("  https://s.to/redirect/9 \n\n\t\nhttps://s.to/redirect/9\n"), 0o644), ShouldBeNil)

			links, err := s.Load(path)
			So(err, ShouldBeNil)
			So(links, ShouldHaveLength, 1)
			So(links, ShouldContainKey, "https://s.to/redirect/9")
		})

		Convey("Appending nothing does not create a file", func() {
			path := s.SeasonFile("Foo", 2)
			So(s.Append(path, nil), ShouldBeNil)
			So(s.Exists(path), ShouldBeFalse)
		})

		Convey("Nested files get their parent directory created", func() {
			nested := NewLinkStore(memFs, "backpack", models.LayoutNested)
			path := nested.SeasonFile("Foo", 1)
			So(nested.Append(path, []string{"https://s.to/redirect/1"}), ShouldBeNil)
			So(nested.Exists(path), ShouldBeTrue)
		})
	})
}

func TestLinkStore_ListLinkFiles(t *testing.T) {
	Convey("Given saved season files", t, func() {
		memFs := afero.NewMemMapFs()
		s := NewLinkStore(memFs, "backpack", models.LayoutFlat)

		Convey("A missing output directory lists nothing", func() {
			files, err := s.ListLinkFiles()
			So(err, ShouldBeNil)
			So(files, ShouldBeEmpty)
		})

		Convey("Only .txt files are listed, in lexical order, without aggregates", func() {
			for _, name := range []string{
				"Foo_season2.txt",
				"Foo_season1.txt",
				"Bar/season1.txt",
				"last_scrape.yaml",
				AggregatePrefix + "abc.txt",
			} {
				So(afero.WriteFile(memFs, filepath.Join("backpack", name), []byte("x\n"), 0o644), ShouldBeNil)
			}

			files, err := s.ListLinkFiles()
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{
				filepath.Join("backpack", "Bar", "season1.txt"),
				filepath.Join("backpack", "Foo_season1.txt"),
				filepath.Join("backpack", "Foo_season2.txt"),
			})
		})
	})
}

func TestLinkStore_WriteAggregate(t *testing.T) {
	Convey("Given two season files", t, func() {
		memFs := afero.NewMemMapFs()
		s := NewLinkStore(memFs, "backpack", models.LayoutFlat)
		first := s.SeasonFile("Foo", 1)
		second := s.SeasonFile("Foo", 2)
		So(afero.WriteFile(memFs, first, []byte("a\nb\n"), 0o644), ShouldBeNil)
		So(afero.WriteFile(memFs, second, []byte("c"), 0o644), ShouldBeNil)

		Convey("The aggregate concatenates them in selection order", func() {
			path, err := s.WriteAggregate([]string{second, first})
			So(err, ShouldBeNil)
			So(filepath.Dir(path), ShouldEqual, "backpack")
			So(filepath.Base(path), ShouldStartWith, AggregatePrefix)

			content, err := afero.ReadFile(memFs, path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "c\na\nb\n")

			Convey("and Remove deletes it", func() {
				So(s.Remove(path), ShouldBeNil)
				So(s.Exists(path), ShouldBeFalse)
			})
		})

		Convey("A missing input aborts and leaves no aggregate behind", func() {
			_, err := s.WriteAggregate([]string{first, filepath.Join("backpack", "gone.txt")})
			So(err, ShouldNotBeNil)

			files, _ := afero.Glob(memFs, filepath.Join("backpack", AggregatePrefix+"*"))
			So(files, ShouldBeEmpty)
		})
	})
}
