package model

// Parking represents a parking lot row in the `parking` table. The primary
// key is externally visible and assigned as max(parking_id)+1 when a lot is
// created, starting at 1 on an empty table.
//
// Fields:
//  ParkingID     – externally visible primary key.
//  AmountOfSpots – total number of spots in the lot.
//  Address       – street address of the lot.
//  Comment       – optional free-form note (nullable).
//  Price         – price per booking in whole currency units.
type Parking struct {
	ParkingID     int64   // parking.parking_id
	AmountOfSpots int     // parking.amount_of_spots
	Address       string  // parking.address
	Comment       *string // parking.comment (nullable)
	Price         int     // parking.price
}
