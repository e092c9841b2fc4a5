package domain

// transitions maps each status to the statuses it may move to.
// A status with no entry is terminal.
type transitions[S ~string] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (t transitions[S]) terminal(s S) bool { return len(t[s]) == 0 }

func known[S ~string](all []S, s S) bool {
	for _, v := range all {
		if v == s {
			return true
		}
	}
	return false
}

// ---------- Rescue requests ----------

type RescueStatus string

const (
	RescuePending    RescueStatus = "pending"
	RescueApproved   RescueStatus = "approved"
	RescueInProgress RescueStatus = "in_progress"
	RescueCompleted  RescueStatus = "completed"
	RescueRejected   RescueStatus = "rejected"
)

var rescueStatuses = []RescueStatus{RescuePending, RescueApproved, RescueInProgress, RescueCompleted, RescueRejected}

var rescueFlow = transitions[RescueStatus]{
	RescuePending:    {RescueApproved, RescueRejected},
	RescueApproved:   {RescueInProgress},
	RescueInProgress: {RescueCompleted},
}

func (s RescueStatus) Valid() bool                         { return known(rescueStatuses, s) }
func (s RescueStatus) Terminal() bool                      { return rescueFlow.terminal(s) }
func (s RescueStatus) CanTransitionTo(n RescueStatus) bool { return rescueFlow.allows(s, n) }

func (s RescueStatus) Label() string {
	switch s {
	case RescuePending:
		return "Pending"
	case RescueApproved:
		return "Approved"
	case RescueInProgress:
		return "In Progress"
	case RescueCompleted:
		return "Completed"
	case RescueRejected:
		return "Rejected"
	}
	return string(s)
}

// ---------- Adoption requests ----------

type AdoptionStatus string

const (
	AdoptionPending  AdoptionStatus = "pending"
	AdoptionApproved AdoptionStatus = "approved"
	AdoptionRejected AdoptionStatus = "rejected"
)

var adoptionStatuses = []AdoptionStatus{AdoptionPending, AdoptionApproved, AdoptionRejected}

var adoptionFlow = transitions[AdoptionStatus]{
	AdoptionPending: {AdoptionApproved, AdoptionRejected},
}

func (s AdoptionStatus) Valid() bool                           { return known(adoptionStatuses, s) }
func (s AdoptionStatus) Terminal() bool                        { return adoptionFlow.terminal(s) }
func (s AdoptionStatus) CanTransitionTo(n AdoptionStatus) bool { return adoptionFlow.allows(s, n) }

// ---------- Bookings ----------

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

var bookingFlow = transitions[BookingStatus]{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) Valid() bool                          { return known(bookingStatuses, s) }
func (s BookingStatus) Terminal() bool                       { return bookingFlow.terminal(s) }
func (s BookingStatus) CanTransitionTo(n BookingStatus) bool { return bookingFlow.allows(s, n) }

// ---------- Orders ----------

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderCompleted, OrderCancelled}

var orderFlow = transitions[OrderStatus]{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
}

func (s OrderStatus) Valid() bool                        { return known(orderStatuses, s) }
func (s OrderStatus) Terminal() bool                     { return orderFlow.terminal(s) }
func (s OrderStatus) CanTransitionTo(n OrderStatus) bool { return orderFlow.allows(s, n) }

// ---------- Adoptable animals ----------

type AnimalStatus string

const (
	AnimalAvailable AnimalStatus = "available"
	AnimalPending   AnimalStatus = "pending"
	AnimalAdopted   AnimalStatus = "adopted"
)

var animalStatuses = []AnimalStatus{AnimalAvailable, AnimalPending, AnimalAdopted}

var animalFlow = transitions[AnimalStatus]{
	AnimalAvailable: {AnimalPending, AnimalAdopted},
	AnimalPending:   {AnimalAvailable, AnimalAdopted},
}

func (s AnimalStatus) Valid() bool                         { return known(animalStatuses, s) }
func (s AnimalStatus) Terminal() bool                      { return animalFlow.terminal(s) }
func (s AnimalStatus) CanTransitionTo(n AnimalStatus) bool { return animalFlow.allows(s, n) }
