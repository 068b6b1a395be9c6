/*
Package scratch runs the docscratch demonstration sequence against a
docstore.Client.

The sequence is:

 1. create the database if it does not exist;
 2. create the container if it does not exist (partition key /categoryId,
    autoscale up to 1000 RU/s);
 3. create the sample item;
 4. read the sample item back by id and partition key;
 5. list every item in the container;
 6. query the container;
 7. fetch the account's readable locations.

Each step issues one request and logs one result. Run stops at the first
failing step; Main logs that failure and turns it into an exit status.
*/
package scratch
