package triage

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/go-core/log"
)

// QueueManager owns per-department patient queues. Placement for a given
// department is a single-writer critical section: the read-sort-write cycle
// on a doctor's queue runs under a keyed mutex so concurrent assessments
// resolving to the same department cannot lose an insert or duplicate an id.
type QueueManager struct {
	doctors DoctorStore
	logger  log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // department -> placement lock
}

// NewQueueManager creates a queue manager over the given doctor store.
func NewQueueManager(doctors DoctorStore, logger log.Logger) *QueueManager {
	if logger == nil {
		logger = log.Nop()
	}
	return &QueueManager{
		doctors: doctors,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (q *QueueManager) lockFor(department string) *sync.Mutex {
	q.mu.Lock()
	defer q.mu.Unlock()
	l, ok := q.locks[department]
	if !ok {
		l = &sync.Mutex{}
		q.locks[department] = l
	}
	return l
}

// Place inserts or repositions a patient in the department's queue and
// returns the resulting id sequence, highest priority first. ok is false
// when the department has no doctor; that is an observed outcome, not an
// error. Placing a patient again with an unchanged risk is idempotent.
func (q *QueueManager) Place(ctx context.Context, department, patientID string, risk RiskLevel) (ids []string, ok bool, err error) {
	l := q.lockFor(department)
	l.Lock()
	defer l.Unlock()

	doc, found, err := q.doctors.FindByDepartment(ctx, department)
	if err != nil {
		return nil, false, Wrap(KindPersistence, "doctor lookup", err)
	}
	if !found {
		return nil, false, nil
	}

	updated := false
	for i := range doc.Queue {
		if doc.Queue[i].PatientID == patientID {
			doc.Queue[i].Risk = risk
			updated = true
			break
		}
	}
	if !updated {
		doc.Queue = append(doc.Queue, QueueEntry{PatientID: patientID, Risk: risk})
	}

	// Stable: ties keep the relative order they had going into this sort,
	// so a later Critical arrival queues behind an earlier one.
	sort.SliceStable(doc.Queue, func(i, j int) bool {
		return doc.Queue[i].Risk.Priority() > doc.Queue[j].Risk.Priority()
	})

	if err := q.doctors.Save(ctx, doc); err != nil {
		return nil, true, Wrap(KindPersistence, "queue save", err)
	}

	q.logger.Info(ctx, "patient placed",
		"department", department,
		"doctor_id", doc.ID,
		"patient_id", patientID,
		"risk", string(risk),
		"queue_depth", len(doc.Queue),
	)

	return doc.QueueIDs(), true, nil
}

// Queue returns the current id sequence for a department's doctor.
func (q *QueueManager) Queue(ctx context.Context, department string) ([]string, error) {
	doc, found, err := q.doctors.FindByDepartment(ctx, department)
	if err != nil {
		return nil, Wrap(KindPersistence, "doctor lookup", err)
	}
	if !found {
		return nil, Ef(KindNotFound, "no doctor for department %q", department)
	}
	return doc.QueueIDs(), nil
}
