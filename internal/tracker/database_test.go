package tracker

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/bill-tracker/internal/bill"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveSnapshot", func() {
		var (
			snapshot *bill.Snapshot
			err      error
		)

		BeforeEach(func() {
			value := 85.50
			snapshot = &bill.Snapshot{
				Bills: []bill.Bill{{
					ID:             "<duke-1@billing.duke-energy.com>",
					Provider:       "Duke Energy",
					Received:       "2025-03-12T09:30:00Z",
					AmountDue:      "$85.50",
					AmountDueValue: &value,
					DueDateISO:     "2025-03-20",
					Status:         bill.StatusDue,
				}},
				Summary: bill.Summary{
					ByProvider:     map[string]int{"Duke Energy": 1},
					TotalAmountDue: 85.50,
					NextDueDate:    "2025-03-20",
				},
				Count:      1,
				LastUpdate: "2025-03-15T12:00:00Z",
			}
		})

		JustBeforeEach(func() {
			err = db.SaveSnapshot(snapshot)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should round-trip the snapshot", func() {
				saved, getErr := db.GetSnapshot()
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved).To(Equal(snapshot))
			})
		})

		When("a snapshot was already stored", func() {
			BeforeEach(func() {
				Expect(db.SaveSnapshot(&bill.Snapshot{Count: 99})).To(Succeed())
			})

			It("should replace it", func() {
				saved, getErr := db.GetSnapshot()
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Count).To(Equal(1))
			})
		})
	})

	Describe("GetSnapshot", func() {
		When("nothing has been stored", func() {
			It("should return ErrNoSnapshot", func() {
				_, err := db.GetSnapshot()
				Expect(err).To(MatchError(ErrNoSnapshot))
			})
		})
	})

	Describe("NewBoltDB", func() {
		When("the path is not writable", func() {
			It("should return an error", func() {
				_, err := NewBoltDB(filepath.Join(dbPath, "nested", "test.db"))
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
